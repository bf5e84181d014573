package graph

// User is the subset of the Graph user resource the snippets send.
type User struct {
	AccountEnabled    bool             `json:"accountEnabled"`
	DisplayName       string           `json:"displayName,omitempty"`
	MailNickname      string           `json:"mailNickname,omitempty"`
	UserPrincipalName string           `json:"userPrincipalName,omitempty"`
	PasswordProfile   *PasswordProfile `json:"passwordProfile,omitempty"`
}

// PasswordProfile is the initial password of a new user.
type PasswordProfile struct {
	Password                      string `json:"password,omitempty"`
	ForceChangePasswordNextSignIn bool   `json:"forceChangePasswordNextSignIn"`
}
