package models

// Community is one board section. Each community maps 1:1 onto a chat room.
type Community struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Communities is the static board catalog served by the app shell.
var Communities = []Community{
	{ID: 1, Name: "Full-Stack"},
	{ID: 2, Name: "Frontend"},
	{ID: 3, Name: "Backend"},
	{ID: 4, Name: "Generative AI"},
	{ID: 5, Name: "Cybersecurity"},
	{ID: 6, Name: "Cloud Infrastructure"},
	{ID: 7, Name: "Cloud Native"},
	{ID: 8, Name: "Product Design"},
	{ID: 9, Name: "Product Management"},
}

func CommunityByID(id int) (Community, bool) {
	for _, c := range Communities {
		if c.ID == id {
			return c, true
		}
	}
	return Community{}, false
}

func CommunityByName(name string) (Community, bool) {
	for _, c := range Communities {
		if c.Name == name {
			return c, true
		}
	}
	return Community{}, false
}
