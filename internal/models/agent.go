package models

type Agent struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	Name      string `gorm:"size:100;not null" json:"name"`
	AvatarURL string `gorm:"size:500" json:"avatarUrl"`
}

// SeedAgents is the fixed set of agents leads can be assigned to.
var SeedAgents = []Agent{
	{ID: "agent-1", Name: "Alex Johnson", AvatarURL: "https://picsum.photos/seed/1/40/40"},
	{ID: "agent-2", Name: "Maria Garcia", AvatarURL: "https://picsum.photos/seed/2/40/40"},
	{ID: "agent-3", Name: "James Brown", AvatarURL: "https://picsum.photos/seed/3/40/40"},
}
