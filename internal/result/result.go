package result

// Error represents a validation, generation or packaging error.
type Error struct {
	Type       string `json:"type"`
	Severity   string `json:"severity"`
	Class      string `json:"class,omitempty"`
	File       string `json:"file,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Warning represents a non-fatal finding such as an ignored notation line.
type Warning struct {
	Type       string `json:"type"`
	Severity   string `json:"severity"`
	Class      string `json:"class,omitempty"`
	Line       int    `json:"line,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// PhaseResult is the outcome of one generation phase (server or client).
type PhaseResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	// Artifacts maps an artifact role (entity, model, ...) to the files written for it,
	// relative to the phase root, in emission order.
	Artifacts map[string][]string `json:"artifacts,omitempty"`
	Count     int                 `json:"count"`
}

// NewPhaseResult returns an empty successful phase result.
func NewPhaseResult() *PhaseResult {
	return &PhaseResult{Success: true, Artifacts: make(map[string][]string)}
}

// Add records a written file under role.
func (p *PhaseResult) Add(role, path string) {
	if p.Artifacts == nil {
		p.Artifacts = make(map[string][]string)
	}
	p.Artifacts[role] = append(p.Artifacts[role], path)
	p.Count++
}

// Fail marks the phase failed with the given message.
func (p *PhaseResult) Fail(msg string) *PhaseResult {
	p.Success = false
	p.Error = msg
	return p
}

// Files returns every written path in role order followed by emission order.
func (p *PhaseResult) Files(roles ...string) []string {
	var out []string
	for _, r := range roles {
		out = append(out, p.Artifacts[r]...)
	}
	return out
}

// Failure is the payload returned to callers when a generation request fails.
type Failure struct {
	Success bool    `json:"success"`
	Code    Code    `json:"code,omitempty"`
	Error   string  `json:"error"`
	Errors  []Error `json:"errors,omitempty"`
}

// NewFailure builds a Failure from err, keeping its code when it carries one.
func NewFailure(err error) Failure {
	return Failure{Success: false, Code: CodeOf(err), Error: err.Error()}
}
