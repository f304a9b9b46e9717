package questionbank

// File is the on-disk question bank schema, in YAML or JSON.
type File struct {
	Version int `json:"version" yaml:"version"`
	// Category applies to entries that leave their own category empty.
	Category  string  `json:"category,omitempty" yaml:"category,omitempty"`
	CreatedBy string  `json:"created_by,omitempty" yaml:"created_by,omitempty"`
	Questions []Entry `json:"questions" yaml:"questions"`
}

type Entry struct {
	ID            string   `json:"id,omitempty" yaml:"id,omitempty"`
	Category      string   `json:"category,omitempty" yaml:"category,omitempty"`
	Difficulty    string   `json:"difficulty" yaml:"difficulty"`
	Text          string   `json:"question" yaml:"question"`
	Options       []string `json:"options" yaml:"options"`
	CorrectAnswer string   `json:"correct_answer" yaml:"correct_answer"`
	Description   string   `json:"description,omitempty" yaml:"description,omitempty"`
}
