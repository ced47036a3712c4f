package domain

// Message represents one entry in the conversation transcript.
// A pending message is the transient placeholder shown while a turn is in
// flight; resolution rewrites it in place as a bot message.
type Message struct {
	ID        MessageID
	Sender    Role
	Text      string
	CreatedAt Timestamp
}

// ResponseKind tags the two shapes a model reply can take.
type ResponseKind string

const (
	ResponsePlainText       ResponseKind = "plain_text"
	ResponseActionRequested ResponseKind = "action_requested"
)

// Response is the polymorphic reply of the conversation client: free text or
// a single requested tool invocation, never both. When the service emits a
// structured action, the action wins and any accompanying text is dropped.
type Response struct {
	Kind       ResponseKind
	Text       string
	Invocation *ToolInvocation
}

// ToolInvocation is a structured action the model asks the application to
// run instead of replying with text.
type ToolInvocation struct {
	ID   string // opaque correlation token issued by the service
	Name string
	Args map[string]any
}

// ToolResult reports the outcome of one executed invocation. ID must carry
// the invocation's correlation token unchanged.
type ToolResult struct {
	ID      string
	Name    string
	Outcome string
}

// ParamType is the subset of schema types the declared tools use.
type ParamType string

const (
	ParamString ParamType = "string"
	ParamArray  ParamType = "array"
)

// PropertySpec describes one parameter of a tool declaration.
type PropertySpec struct {
	Type        ParamType
	Description string
	Items       *PropertySpec // element spec for array parameters
}

// ParameterSchema is the object schema of a tool's arguments.
type ParameterSchema struct {
	Properties map[string]PropertySpec
	Required   []string
}

// ToolDefinition declares a callable tool to the model. It stays neutral so
// the domain does not depend on any provider SDK; adapters translate it to
// their wire schema.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  ParameterSchema
}
