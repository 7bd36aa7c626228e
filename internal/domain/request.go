package domain

import "time"

// RequestStatus tracks a learner request until it becomes a campaign.
type RequestStatus string

const (
	RequestSubmitted  RequestStatus = "submitted"   // Learner sent it, no coach yet
	RequestAssigned   RequestStatus = "assigned"    // Admin picked a coach
	RequestInProgress RequestStatus = "in_progress" // Coach opened a campaign from it
	RequestArchived   RequestStatus = "archived"    // Program published, request is history
)

// Request is an improvement objective submitted by a learner.
type Request struct {
	ID           string        `bson:"_id" json:"id"`
	LearnerEmail string        `bson:"learner_email" json:"learner_email"`
	CoachEmail   string        `bson:"coach_email,omitempty" json:"coach_email,omitempty"`
	Objective    string        `bson:"objective" json:"objective"`
	Context      string        `bson:"context" json:"context"`
	Weeks        int           `bson:"weeks" json:"weeks"`
	Supports     []Support     `bson:"supports" json:"supports"`
	Status       RequestStatus `bson:"status" json:"status"`
	CreatedAt    time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updated_at"`
}
