package snippets

import "github.com/Azure/msgraph-snippets/internal/graph"

func contactsSnippets() []Operation {
	return []Operation{
		{
			Category: CategoryContacts,
			Name:     "contacts",
			Title:    "Contacts",
			Marker:   true,
		},
		{
			Category:    CategoryContacts,
			Name:        "get_all_contacts",
			Title:       "Get all contacts",
			Description: "Gets all of the organizational contacts in your tenant.",
			DocURL:      "https://learn.microsoft.com/graph/api/orgcontact-list",
			Method:      "GET",
			Path:        "/{version}/contacts",
			build: func(client *graph.Client, rc RequestContext) *graph.Call {
				return client.Contacts().GetContacts(rc.Version)
			},
		},
	}
}
