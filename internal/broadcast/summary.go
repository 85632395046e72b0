package broadcast

import "supplierhub/models"

// Summary counts send rows by state.
type Summary struct {
	Total      int     `json:"total"`
	Sent       int     `json:"sent"`
	Delivered  int     `json:"delivered"`
	Read       int     `json:"read"`
	Error      int     `json:"error"`
	Completion float64 `json:"completion"`
}

// Summarize computes the counts and (delivered+read)/total, 0 when empty.
func Summarize(rows []models.RFQSentFactory) Summary {
	s := Summary{Total: len(rows)}
	for _, r := range rows {
		switch r.Status {
		case models.SendStatusSent:
			s.Sent++
		case models.SendStatusDelivered:
			s.Delivered++
		case models.SendStatusRead:
			s.Read++
		case models.SendStatusError:
			s.Error++
		}
	}
	if s.Total > 0 {
		s.Completion = float64(s.Delivered+s.Read) / float64(s.Total)
	}
	return s
}
