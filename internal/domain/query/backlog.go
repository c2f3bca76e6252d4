package query

import "github.com/jhoicas/Accesos-api/internal/domain/entity"

// BacklogEntry solicitudes en espera en un estado no terminal.
type BacklogEntry struct {
	Status  entity.Status
	Waiting int
	Overdue int // fecha requerida anterior a hoy
}

// Backlog agrupa las solicitudes abiertas por estado, en orden de pipeline.
// today tiene formato YYYY-MM-DD; las fechas requeridas vacías nunca vencen.
func Backlog(all []*entity.AccessRequest, today string) []BacklogEntry {
	idx := map[entity.Status]int{}
	var out []BacklogEntry
	for _, s := range entity.Statuses() {
		if s.Terminal() {
			continue
		}
		idx[s] = len(out)
		out = append(out, BacklogEntry{Status: s})
	}
	for _, r := range all {
		i, ok := idx[r.Status]
		if !ok {
			continue
		}
		out[i].Waiting++
		if d := r.Details.RequiredDate; d != "" && d < today {
			out[i].Overdue++
		}
	}
	return out
}
