//go:build debug

package mesh

import "fmt"

// AssertConsistent runs the expensive topology checks the original gates
// behind DEBUG_ preprocessor blocks: every directed edge's involution,
// and that every vertex's one-ring rotation returns to its start within
// NumF*3 steps (catching an accidental infinite loop from a corrupted
// E2E before it hangs a caller). Only compiled into debug builds via the
// "debug" build tag — release builds never pay for it.
func (m *Mesh) AssertConsistent() error {
	if d := m.CheckInvolution(); d != -1 {
		return fmt.Errorf("mesh: involution check failed at directed edge %d", d)
	}
	limit := m.NumF*3 + 1
	for v := 0; v < m.NumV; v++ {
		start := m.V2E[v]
		if start == Absent {
			return fmt.Errorf("mesh: vertex %d has no outgoing edge", v)
		}
		d := start
		steps := 0
		for {
			d = m.NextOut(d)
			steps++
			if d == start {
				break
			}
			if steps > limit {
				return fmt.Errorf("mesh: one-ring rotation at vertex %d did not close", v)
			}
		}
	}
	return nil
}
