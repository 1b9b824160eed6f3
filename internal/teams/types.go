package teams

// Profile is a Microsoft Graph user.
type Profile struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
	JobTitle          string `json:"jobTitle"`
}

// UserList is a page of directory users.
type UserList struct {
	Value    []Profile `json:"value"`
	NextLink string    `json:"@odata.nextLink"`
}

// Channel is a channel within a team.
type Channel struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Team is a team the user is a member of.
type Team struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Channels    []Channel `json:"channels"`
}

// Chat is a 1:1 or group conversation.
type Chat struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// UserDetails is the chat service aggregation view of the signed-in user:
// their teams and chats.
type UserDetails struct {
	Teams []Team `json:"teams"`
	Chats []Chat `json:"chats"`
}
