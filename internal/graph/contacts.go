package graph

import "net/http"

// ContactsService covers the organizational /contacts collection.
type ContactsService struct {
	client *Client
}

// GetContacts lists the organizational contacts.
//
// GET /{version}/contacts
func (s *ContactsService) GetContacts(version string) *Call {
	return s.client.newCall(http.MethodGet, okStatus, version, "contacts")
}
