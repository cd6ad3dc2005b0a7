package goals

// Goal is the single persisted record: a storage-assigned id and its text.
type Goal struct {
	ID   int64  `db:"id" json:"id"`
	Goal string `db:"goal" json:"goal"`
}

type createGoalRequest struct {
	Goal string `json:"goal" validate:"required"`
}

// A nil Goal keeps the stored text.
type updateGoalRequest struct {
	Goal *string `json:"goal"`
}
