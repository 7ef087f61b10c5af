package handlers

import (
	"time"

	"userdir/internal/models"
)

// CredentialsRequest is the body of registration and login requests.
type CredentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserPutRequest is the body of a profile update. Absent or null fields are
// left unchanged.
type UserPutRequest struct {
	Username *string `json:"username"`
	Birthday *string `json:"birthday"`
	Status   *string `json:"status"`
}

// ToPatch converts the request into a UserPatch. A birthday that is not in
// dd.MM.yyyy format is rejected here.
func (r UserPutRequest) ToPatch() (models.UserPatch, error) {
	var patch models.UserPatch
	if r.Username != nil {
		patch.Username = models.Some(*r.Username)
	}
	if r.Status != nil {
		patch.Status = models.Some(*r.Status)
	}
	if r.Birthday != nil {
		birthday, err := models.ParseBirthday(*r.Birthday)
		if err != nil {
			return models.UserPatch{}, err
		}
		patch.Birthday = models.Some(birthday)
	}
	return patch, nil
}

// UserResponse is the public view of a user. It never carries the password.
type UserResponse struct {
	ID           uint              `json:"id"`
	Username     string            `json:"username"`
	Status       models.UserStatus `json:"status"`
	Token        string            `json:"token"`
	CreationDate time.Time         `json:"creation_date"`
	Birthday     *string           `json:"birthday"`
}

// NewUserResponse builds the public view of u.
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Status:       u.Status,
		Token:        u.Token,
		CreationDate: u.CreationDate,
		Birthday:     models.FormatBirthday(u.Birthday),
	}
}

// NewUserResponses builds the public view of every user in users.
func NewUserResponses(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}
