package models

// Gender preference values stored on a profile.
const (
	GenderPreferenceMale   = "MALE"
	GenderPreferenceFemale = "FEMALE"
	GenderPreferenceAll    = "ALL"
)

// UserProfile defines the structure for user profiles, including the stored
// match preferences consumed by discovery.
type UserProfile struct {
	UserID           string   `dynamodbav:"userId" json:"userId"`
	FullName         string   `dynamodbav:"fullName,omitempty" json:"fullName,omitempty"`
	Bio              string   `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	DOB              string   `dynamodbav:"dob,omitempty" json:"dob,omitempty"` // YYYY-MM-DD
	Gender           string   `dynamodbav:"gender,omitempty" json:"gender,omitempty"`
	Education        string   `dynamodbav:"education,omitempty" json:"education,omitempty"`
	Interests        []string `dynamodbav:"interests,omitempty" json:"interests,omitempty"`
	Latitude         *float64 `dynamodbav:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude        *float64 `dynamodbav:"longitude,omitempty" json:"longitude,omitempty"`
	Discoverable     bool     `dynamodbav:"discoverable" json:"discoverable"`
	Completeness     int      `dynamodbav:"completeness" json:"completeness"` // 0-10
	GenderPreference string   `dynamodbav:"genderPreference,omitempty" json:"genderPreference,omitempty"`
	MinAge           int      `dynamodbav:"minAge,omitempty" json:"minAge,omitempty"`
	MaxAge           int      `dynamodbav:"maxAge,omitempty" json:"maxAge,omitempty"`
	MaxDistanceKM    float64  `dynamodbav:"maxDistanceKm,omitempty" json:"maxDistanceKm,omitempty"`
}

// HasCoordinates reports whether the profile carries a usable location.
func (p *UserProfile) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"
