package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/briandowns/spinner"
	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	clientName       = "cosmos-mcp-cli"
	methodProgress   = "notifications/progress"
	spinnerCharSet   = 14
	spinnerFrameRate = 100 * time.Millisecond
)

// ExecutorOptions configures a ToolExecutor.
type ExecutorOptions struct {
	Format    OutputFormat
	NoHeaders bool
	// Quiet suppresses the spinner and live progress output
	Quiet    bool
	Endpoint string
	// Version is sent as the client version during initialization
	Version string

	// Out and ErrOut default to the process streams.
	Out    io.Writer
	ErrOut io.Writer
}

// ToolExecutor talks to a running gateway over streamable HTTP: it lists
// tools and calls them, printing streamed progress as it arrives.
type ToolExecutor struct {
	client   *client.Client
	options  ExecutorOptions
	endpoint string

	mu sync.Mutex
	// progress token of the call in flight and its chunk handler
	progressToken string
	onChunk       func(string)
}

// NewToolExecutor creates an executor for options.Endpoint. It does not
// connect; call Connect first.
func NewToolExecutor(options ExecutorOptions) (*ToolExecutor, error) {
	if options.Endpoint == "" {
		options.Endpoint = GetDefaultEndpoint()
	}
	if options.Format == "" {
		options.Format = OutputFormatTable
	}
	if options.Out == nil {
		options.Out = os.Stdout
	}
	if options.ErrOut == nil {
		options.ErrOut = os.Stderr
	}

	c, err := client.NewStreamableHttpClient(options.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create client for %s: %w", options.Endpoint, err)
	}
	e := &ToolExecutor{
		client:   c,
		options:  options,
		endpoint: options.Endpoint,
	}
	c.OnNotification(e.handleNotification)
	return e, nil
}

func (e *ToolExecutor) startSpinner(suffix string) *spinner.Spinner {
	if e.options.Quiet {
		return nil
	}
	s := spinner.New(spinner.CharSets[spinnerCharSet], spinnerFrameRate, spinner.WithWriter(e.options.ErrOut))
	s.Suffix = suffix
	s.Start()
	return s
}

// Connect starts the transport and performs the MCP handshake.
func (e *ToolExecutor) Connect(ctx context.Context) error {
	s := e.startSpinner(" Connecting to cosmos-mcp...")
	defer func() {
		if s != nil {
			s.Stop()
		}
	}()

	if err := e.client.Start(ctx); err != nil {
		return ClassifyConnectionError(err, e.endpoint)
	}
	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{Name: clientName, Version: e.options.Version}
	if _, err := e.client.Initialize(ctx, req); err != nil {
		if s != nil {
			s.FinalMSG = text.FgRed.Sprint("Failed to connect to cosmos-mcp") + "\n"
		}
		return ClassifyConnectionError(err, e.endpoint)
	}
	return nil
}

// Close ends the MCP session.
func (e *ToolExecutor) Close() error {
	return e.client.Close()
}

// ListTools returns the gateway's tools.
func (e *ToolExecutor) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	res, err := e.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	return res.Tools, nil
}

// GetTool returns the named tool.
func (e *ToolExecutor) GetTool(ctx context.Context, name string) (mcp.Tool, error) {
	tools, err := e.ListTools(ctx)
	if err != nil {
		return mcp.Tool{}, err
	}
	for _, t := range tools {
		if t.Name == name {
			return t, nil
		}
	}
	return mcp.Tool{}, fmt.Errorf("tool '%s' not found", name)
}

// Call invokes a tool and returns its text. Streamed chunks are passed to
// onChunk as they arrive; onChunk may be nil.
func (e *ToolExecutor) Call(ctx context.Context, name string, args map[string]any, onChunk func(string)) (string, error) {
	token := uuid.NewString()
	e.mu.Lock()
	e.progressToken, e.onChunk = token, onChunk
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.progressToken, e.onChunk = "", nil
		e.mu.Unlock()
	}()

	res, err := e.client.CallTool(ctx, mcp.CallToolRequest{Params: mcp.CallToolParams{
		Name:      name,
		Arguments: args,
		Meta:      &mcp.Meta{ProgressToken: token},
	}})
	if err != nil {
		return "", fmt.Errorf("failed to execute tool %s: %w", name, err)
	}

	var out string
	for _, content := range res.Content {
		out += mcp.GetTextFromContent(content)
	}
	if res.IsError || isErrorText(out) {
		return "", &ToolError{Tool: name, Text: out}
	}
	return out, nil
}

// Execute calls a tool and prints the result. For streaming tools each
// chunk is printed as it arrives and the joined result is not repeated.
// Chunks carry their own line endings.
func (e *ToolExecutor) Execute(ctx context.Context, name string, args map[string]any) error {
	s := e.startSpinner(" Executing " + name + "...")
	var once sync.Once
	stop := func() {
		once.Do(func() {
			if s != nil {
				s.Stop()
			}
		})
	}
	defer stop()

	var streamed atomic.Bool
	onChunk := func(chunk string) {
		stop()
		streamed.Store(true)
		if !e.options.Quiet {
			fmt.Fprint(e.options.Out, chunk)
		}
	}

	result, err := e.Call(ctx, name, args, onChunk)
	stop()
	if err != nil {
		if !e.options.Quiet {
			fmt.Fprintln(e.options.ErrOut, text.FgRed.Sprint("Command failed"))
		}
		return err
	}
	if streamed.Load() && !e.options.Quiet {
		return nil
	}
	return FormatResult(e.options.Out, result, e.options.Format)
}

func (e *ToolExecutor) handleNotification(n mcp.JSONRPCNotification) {
	if n.Method != methodProgress {
		return
	}
	fields := n.Params.AdditionalFields
	token, _ := fields["progressToken"].(string)
	message, _ := fields["message"].(string)

	e.mu.Lock()
	onChunk := e.onChunk
	current := e.progressToken
	e.mu.Unlock()

	if onChunk == nil || token == "" || token != current {
		return
	}
	onChunk(message)
}
