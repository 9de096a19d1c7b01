package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Patient is a demographic/medical-history profile. UserID links the profile to
// a login account and is nil for patients registered by an admin without one.
type Patient struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID          *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	Name            string              `bson:"name" json:"name"`
	Age             int                 `bson:"age" json:"age"`
	Sex             string              `bson:"sex" json:"sex"`
	Address         string              `bson:"address,omitempty" json:"address,omitempty"`
	Mobile          string              `bson:"mobile" json:"mobile"`
	Occupation      string              `bson:"occupation,omitempty" json:"occupation,omitempty"`
	DM              bool                `bson:"dm" json:"dm"`
	HT              bool                `bson:"ht" json:"ht"`
	HeartDisease    bool                `bson:"heartDisease" json:"heartDisease"`
	ThyroidDisorder bool                `bson:"thyroidDisorder" json:"thyroidDisorder"`
	Allergy         bool                `bson:"allergy" json:"allergy"`
	AllergyDetails  string              `bson:"allergyDetails,omitempty" json:"allergyDetails,omitempty"`
	CurrentBPM      *int                `bson:"currentBpm,omitempty" json:"currentBpm,omitempty"`
}
