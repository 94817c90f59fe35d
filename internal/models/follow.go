package models

// FollowersDoc holds the set of users following the doc's owner.
// One document per user, keyed by Firebase UID.
type FollowersDoc struct {
	UserID    string   `json:"user_id" bson:"_id"`
	Followers []string `json:"followers" bson:"followers"`
}

// FollowingDoc holds the set of users the doc's owner follows.
//
// The pair is kept symmetric: B in FollowersDoc(A).Followers iff
// A in FollowingDoc(B).Following, for all A != B.
type FollowingDoc struct {
	UserID    string   `json:"user_id" bson:"_id"`
	Following []string `json:"following" bson:"following"`
}

// UserStats is the read-side aggregate shown on a profile. Recomputed on
// every call; nothing here is cached or maintained on the write path.
type UserStats struct {
	Posts     int64 `json:"posts"`
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}
