package graph

import "net/http"

// UsersService covers the /users collection.
type UsersService struct {
	client *Client
}

// GetUsers lists the users in the tenant.
//
// GET /{version}/users
func (s *UsersService) GetUsers(version string) *Call {
	return s.client.newCall(http.MethodGet, okStatus, version, "users")
}

// GetFilteredUsers lists users matching an OData filter expression.
//
// GET /{version}/users?$filter={filter}
func (s *UsersService) GetFilteredUsers(version, filter string) *Call {
	call := s.client.newCall(http.MethodGet, okStatus, version, "users")
	call.query.Set("$filter", filter)
	return call
}

// CreateNewUser adds user to the tenant's directory.
//
// POST /{version}/users
func (s *UsersService) CreateNewUser(version string, user *User) *Call {
	call := s.client.newCall(http.MethodPost, []int{http.StatusCreated, http.StatusOK}, version, "users")
	call.body = user
	return call
}
