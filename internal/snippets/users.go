package snippets

import (
	"github.com/google/uuid"

	"github.com/Azure/msgraph-snippets/internal/graph"
)

// UnitedStatesFilter is the $filter expression of get_organization_filtered_users.
const UnitedStatesFilter = "country eq 'United States'"

func usersSnippets() []Operation {
	return []Operation{
		{
			Category: CategoryUsers,
			Name:     "users",
			Title:    "Users",
			Marker:   true,
		},
		{
			Category:    CategoryUsers,
			Name:        "get_organization_users",
			Title:       "Get organization users",
			Description: "Gets all of the users in your tenant's directory.",
			DocURL:      "https://learn.microsoft.com/graph/api/user-list",
			Method:      "GET",
			Path:        "/{version}/users",
			build: func(client *graph.Client, rc RequestContext) *graph.Call {
				return client.Users().GetUsers(rc.Version)
			},
		},
		{
			Category:    CategoryUsers,
			Name:        "get_organization_filtered_users",
			Title:       "Get organization filtered users",
			Description: "Gets all of the users in your tenant's directory who are from the United States, using $filter.",
			DocURL:      "https://learn.microsoft.com/graph/query-parameters",
			Method:      "GET",
			Path:        "/{version}/users?$filter=" + UnitedStatesFilter,
			build: func(client *graph.Client, rc RequestContext) *graph.Call {
				return client.Users().GetFilteredUsers(rc.Version, UnitedStatesFilter)
			},
		},
		{
			Category:    CategoryUsers,
			Name:        "insert_organization_user",
			Title:       "Insert organization user",
			Description: "Adds a new user with a random name and password to the tenant's directory.",
			DocURL:      "https://learn.microsoft.com/graph/api/user-post-users",
			Method:      "POST",
			Path:        "/{version}/users",
			build: func(client *graph.Client, rc RequestContext) *graph.Call {
				return client.Users().CreateNewUser(rc.Version, NewSampleUser(rc.Credential.Tenant()))
			},
		},
	}
}

// NewSampleUser returns an enabled user named after a random UUID in tenant,
// with a random 16 character password that need not be changed at first sign-in.
func NewSampleUser(tenant string) *graph.User {
	name := uuid.NewString()
	return CreateUser("SAMPLE "+name, name, name+"@"+tenant)
}

// CreateUser builds the request body for a new enabled user.
func CreateUser(displayName, mailNickname, userPrincipalName string) *graph.User {
	return &graph.User{
		AccountEnabled:    true,
		DisplayName:       displayName,
		MailNickname:      mailNickname,
		UserPrincipalName: userPrincipalName,
		PasswordProfile: &graph.PasswordProfile{
			Password:                      uuid.NewString()[:16],
			ForceChangePasswordNextSignIn: false,
		},
	}
}
