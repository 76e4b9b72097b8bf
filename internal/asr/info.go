package asr

const Version = "1.2.0"

const (
	programName        = "Google Speech Recognition"
	programDescription = "Streaming speech recognition using Google Cloud Speech-to-Text"
	attributionName    = "foxseedlab"
	attributionURL     = "https://github.com/foxseedlab/kikitorin"
)

// Attribution credits the origin of a program or model.
type Attribution struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Model struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Attribution Attribution `json:"attribution"`
	Installed   bool        `json:"installed"`
	Version     string      `json:"version"`
	Languages   []string    `json:"languages"`
}

type Program struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Attribution Attribution `json:"attribution"`
	Installed   bool        `json:"installed"`
	Version     string      `json:"version"`
	Models      []Model     `json:"models"`
}

// Info is the capability descriptor returned on a describe query.
// Assembled once at startup, pure data afterwards.
type Info struct {
	ASR []Program `json:"asr"`
}

// NewInfo builds the capability descriptor advertising the configured
// primary language.
func NewInfo(language string) Info {
	attribution := Attribution{Name: attributionName, URL: attributionURL}
	return Info{
		ASR: []Program{
			{
				Name:        programName,
				Description: programDescription,
				Attribution: attribution,
				Installed:   true,
				Version:     Version,
				Models: []Model{
					{
						Name:        programName,
						Description: programDescription,
						Attribution: attribution,
						Installed:   true,
						Version:     Version,
						Languages:   []string{language},
					},
				},
			},
		},
	}
}
