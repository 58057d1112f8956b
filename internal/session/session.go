// Package session sequences one user's upload, edit, generate and deploy
// actions against a Backend.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"portfolio-backend/internal/portfolio"
)

// State is the session's position in the workflow.
type State string

const (
	StateIdle         State = "idle"
	StateFileSelected State = "file_selected"
	StateParsed       State = "parsed"
	StateConfiguring  State = "configuring"
	StateGenerating   State = "generating"
	StateDeploying    State = "deploying"
	StateFailed       State = "failed"
)

var (
	// ErrInFlight rejects a second identical action while one is pending.
	ErrInFlight = errors.New("action already in progress")

	// ErrBusy rejects any other action while one is pending.
	ErrBusy = errors.New("another action is in progress")

	// ErrInvalidState rejects an action the current state does not allow.
	ErrInvalidState = errors.New("action not allowed in current state")
)

type action string

const (
	actionUpload   action = "upload"
	actionGenerate action = "generate"
	actionDeploy   action = "deploy"
)

// Backend performs the network side of each action.
type Backend interface {
	Parse(ctx context.Context, fileName string, content []byte) (portfolio.ResumeData, error)
	Generate(ctx context.Context, req portfolio.GenerationRequest) (portfolio.Archive, error)
	Deploy(ctx context.Context, req portfolio.DeploymentRequest) (portfolio.DeploymentResult, error)
}

// View is a point-in-time copy of the session for display.
type View struct {
	State     State
	FileName  string
	Data      *portfolio.ResumeData
	Selection portfolio.Selection
	LastError string
	// PartialRepoURL is set when a deploy created a repository but hosting failed.
	PartialRepoURL string
	LastArchive    string
	LastResult     *portfolio.DeploymentResult
}

// Session is safe for concurrent use; backend calls run outside the lock.
type Session struct {
	backend Backend

	mu        sync.Mutex
	state     State
	fileName  string
	file      []byte
	data      *portfolio.ResumeData
	selection portfolio.Selection
	pending   action
	lastErr   string
	partial   string
	archive   string
	result    *portfolio.DeploymentResult
}

// New returns an Idle session with the default selection.
func New(backend Backend) *Session {
	return &Session{
		backend:   backend,
		state:     StateIdle,
		selection: portfolio.DefaultSelection(),
	}
}

// View returns a snapshot of the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := View{
		State:          s.state,
		FileName:       s.fileName,
		Selection:      s.selection,
		LastError:      s.lastErr,
		PartialRepoURL: s.partial,
		LastArchive:    s.archive,
	}
	if s.data != nil {
		d := cloneData(*s.data)
		v.Data = &d
	}
	if s.result != nil {
		r := *s.result
		v.LastResult = &r
	}
	return v
}

// SelectFile records the chosen file. Any previously parsed data is dropped.
func (s *Session) SelectFile(name string, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != "" {
		return ErrBusy
	}
	s.fileName = name
	s.file = append([]byte(nil), content...)
	s.data = nil
	s.lastErr = ""
	s.state = StateFileSelected
	return nil
}

// Upload sends the selected file for parsing. On failure the session moves
// to Failed with the backend's message and the upload may be retried.
func (s *Session) Upload(ctx context.Context) error {
	s.mu.Lock()
	if err := s.idleLocked(actionUpload); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.file == nil || (s.state != StateFileSelected && s.state != StateFailed) {
		s.mu.Unlock()
		return ErrInvalidState
	}
	s.pending = actionUpload
	name, content := s.fileName, s.file
	s.mu.Unlock()

	data, err := s.backend.Parse(ctx, name, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = ""
	if err != nil {
		s.state = StateFailed
		s.lastErr = Detail(err)
		return err
	}
	data = data.Normalized()
	s.data = &data
	s.lastErr = ""
	s.state = StateParsed
	return nil
}

// EditData replaces the parsed data with edited JSON text.
func (s *Session) EditData(text string) error {
	data, err := portfolio.DecodeResumeData(text)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.configurableLocked(); err != nil {
		return err
	}
	s.data = &data
	s.state = StateConfiguring
	return nil
}

// Select changes the template and frontend. Blank values keep the defaults.
func (s *Session) Select(templateID, frontend string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.configurableLocked(); err != nil {
		return err
	}
	s.selection = portfolio.ParseSelection(templateID, frontend)
	s.state = StateConfiguring
	return nil
}

// Generate requests an archive for the current data and selection. The
// session returns to Configuring whether or not it succeeds.
func (s *Session) Generate(ctx context.Context) (portfolio.Archive, error) {
	s.mu.Lock()
	if err := s.startLocked(actionGenerate, StateGenerating); err != nil {
		s.mu.Unlock()
		return portfolio.Archive{}, err
	}
	req := s.generationRequestLocked()
	s.mu.Unlock()

	archive, err := s.backend.Generate(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.finishLocked(err)
	if err != nil {
		return portfolio.Archive{}, err
	}
	s.archive = archive.Name
	return archive, nil
}

// Deploy publishes the current data and selection. Tokens are passed through
// to the backend and never kept on the session.
func (s *Session) Deploy(ctx context.Context, githubToken, vercelToken string) (portfolio.DeploymentResult, error) {
	s.mu.Lock()
	if err := s.idleLocked(actionDeploy); err != nil {
		s.mu.Unlock()
		return portfolio.DeploymentResult{}, err
	}
	if strings.TrimSpace(githubToken) == "" || strings.TrimSpace(vercelToken) == "" {
		err := portfolio.Validationf("GitHub and Vercel tokens are required")
		s.lastErr = Detail(err)
		s.mu.Unlock()
		return portfolio.DeploymentResult{}, err
	}
	if err := s.startLocked(actionDeploy, StateDeploying); err != nil {
		s.mu.Unlock()
		return portfolio.DeploymentResult{}, err
	}
	req := portfolio.DeploymentRequest{
		GenerationRequest: s.generationRequestLocked(),
		GitHubToken:       githubToken,
		VercelToken:       vercelToken,
	}
	s.mu.Unlock()

	res, err := s.backend.Deploy(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.finishLocked(err)
	if err != nil {
		var perr *portfolio.ProviderError
		if errors.As(err, &perr) {
			s.partial = perr.RepoURL
		}
		return portfolio.DeploymentResult{}, err
	}
	s.result = &res
	return res, nil
}

// Reset discards the file, data and results and returns to Idle.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != "" {
		return ErrBusy
	}
	s.state = StateIdle
	s.fileName, s.file, s.data = "", nil, nil
	s.selection = portfolio.DefaultSelection()
	s.lastErr, s.partial, s.archive, s.result = "", "", "", nil
	return nil
}

func (s *Session) idleLocked(a action) error {
	switch s.pending {
	case "":
		return nil
	case a:
		return ErrInFlight
	default:
		return ErrBusy
	}
}

func (s *Session) configurableLocked() error {
	if s.pending != "" {
		return ErrBusy
	}
	if s.state != StateParsed && s.state != StateConfiguring {
		return ErrInvalidState
	}
	return nil
}

func (s *Session) startLocked(a action, next State) error {
	if err := s.idleLocked(a); err != nil {
		return err
	}
	if s.state != StateParsed && s.state != StateConfiguring {
		return ErrInvalidState
	}
	s.pending = a
	s.state = next
	s.lastErr = ""
	s.partial = ""
	return nil
}

func (s *Session) finishLocked(err error) {
	s.pending = ""
	s.state = StateConfiguring
	if err != nil {
		s.lastErr = Detail(err)
	}
}

func (s *Session) generationRequestLocked() portfolio.GenerationRequest {
	req := portfolio.GenerationRequest{
		TemplateID:   s.selection.TemplateID,
		FrontendType: s.selection.FrontendType,
	}
	if s.data != nil {
		d := cloneData(*s.data)
		req.ResumeData = &d
	}
	return req
}

// Detail is the user-facing message for err. Errors carrying a server
// supplied detail are shown verbatim.
func Detail(err error) string {
	var d interface{ UserDetail() string }
	if errors.As(err, &d) {
		return d.UserDetail()
	}
	return err.Error()
}

func cloneData(d portfolio.ResumeData) portfolio.ResumeData {
	d.Skills = append([]string(nil), d.Skills...)
	d.Education = append([]string(nil), d.Education...)
	d.Experience = append([]string(nil), d.Experience...)
	d.Projects = append([]string(nil), d.Projects...)
	return d.Normalized()
}
