// internal/workers/allocation/reset-allocation-cursor/models.go
package resetallocationcursor

type Input struct {
	ProjectID string `json:"projectId"`
	RoleID    string `json:"roleId"`
}

type Output struct {
	ProjectID string `json:"projectId"`
	RoleID    string `json:"roleId"`
	Reset     bool   `json:"reset"`
}
