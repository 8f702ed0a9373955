package models

// ActorContext is the verified identity injected by the actor middleware.
// Services receive it explicitly on every mutating call; nothing in the
// codebase reads identity from process-wide state.
type ActorContext struct {
	UserID         string `json:"userId"`
	ProjectID      string `json:"projectId"`
	OrganisationID string `json:"organisationId"`
	Origin         string `json:"origin"`
}
