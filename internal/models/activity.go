package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ActivityView    = "view"
	ActivityLike    = "like"
	ActivityComment = "comment"
	ActivityShare   = "share"
)

// Activity is one engagement event stored in MongoDB.
type Activity struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID     uint               `json:"user_id" bson:"user_id"`
	StoryID    uint               `json:"story_id" bson:"story_id"`
	Action     string             `json:"action" bson:"action"`
	Detail     string             `json:"detail,omitempty" bson:"detail,omitempty"`
	Timestamp  time.Time          `json:"timestamp" bson:"timestamp"`
	StoryTitle string             `json:"story_title,omitempty" bson:"-"`
}
