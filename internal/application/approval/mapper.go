package approval

import (
	"github.com/jhoicas/Accesos-api/internal/application/dto"
	"github.com/jhoicas/Accesos-api/internal/domain/entity"
	"github.com/jhoicas/Accesos-api/internal/domain/workflow"
)

func toResponse(r *entity.AccessRequest, role entity.Role) *dto.AccessRequestResponse {
	if r == nil {
		return nil
	}
	c := r.Clone()
	signatures := make(map[string]string, len(c.Signatures))
	for stage, sig := range c.Signatures {
		signatures[string(stage)] = sig
	}
	approvals := make(map[string]entity.Approval, len(c.Approvals))
	for stage, a := range c.Approvals {
		approvals[string(stage)] = a
	}
	return &dto.AccessRequestResponse{
		ID:            c.ID,
		RequesterID:   c.RequesterID,
		RequesterName: c.RequesterName,
		Details:       c.Details,
		CreatedDate:   c.CreatedDate,
		Status:        string(c.Status),
		StatusLabel:   c.Status.DisplayName(),
		Signatures:    signatures,
		Approvals:     approvals,
		Credentials:   c.Credentials,
		Actions:       actionNames(workflow.Actions(role, c.Status)),
		UpdatedAt:     c.UpdatedAt,
	}
}

func toSummary(r *entity.AccessRequest, role entity.Role) dto.AccessRequestSummary {
	return dto.AccessRequestSummary{
		ID:            r.ID,
		RequesterName: r.RequesterName,
		FullName:      r.Details.FullName,
		EmployeeCode:  r.Details.EmployeeCode,
		RequestType:   r.Details.RequestType,
		Priority:      string(r.Details.Priority),
		RequiredDate:  r.Details.RequiredDate,
		CreatedDate:   r.CreatedDate,
		Status:        string(r.Status),
		StatusLabel:   r.Status.DisplayName(),
		Actions:       actionNames(workflow.Actions(role, r.Status)),
	}
}

func actionNames(actions []workflow.Action) []string {
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		out = append(out, string(a))
	}
	return out
}
