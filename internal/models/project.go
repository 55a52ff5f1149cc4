package models

import (
	"time"
)

// ProjectStatus tracks the admin review of a submitted project.
type ProjectStatus string

const (
	ProjectPending  ProjectStatus = "pending"
	ProjectApproved ProjectStatus = "approved"
	ProjectRejected ProjectStatus = "rejected"
)

// Project is an organisation's submitted project as shown on the public listing.
type Project struct {
	ID           int64         `json:"id"`
	Title        string        `json:"title"`
	Organisation string        `json:"organisation"`
	Status       ProjectStatus `json:"status"`
	Location     Location      `json:"location"`
	CreatedAt    time.Time     `json:"createdAt"`
}
