package seed

// File is the top-level structure of a seed YAML file.
//
//	bugs:
//	  - id: "1"
//	    title: Login button not working
//	    description: Users can't log in using the main login button
//	    status: open
//	    priority: high
//	    created_at: 48h                   # age, or an RFC 3339 timestamp
//	    updated_at: 2024-06-01T10:00:00Z
type File struct {
	Bugs []Entry `yaml:"bugs"`
}

// Entry is one bug as written in the seed file.
type Entry struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Status      string `yaml:"status,omitempty"`
	Priority    string `yaml:"priority"`
	Created     string `yaml:"created_at,omitempty"`
	Updated     string `yaml:"updated_at,omitempty"`
}
