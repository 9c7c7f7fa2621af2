package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/sentry-grid/game/engine"
	"github.com/wricardo/sentry-grid/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Sentry Grid",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Sentry Grid - MCP Interface

This is a thin client that proxies all requests to the REST API server.

WORLD:
An unbounded grid of integer cells. North decreases y, east increases x.
Obstacles (guard, fence, sensor, camera, laser) block cells. Obstacles are
only ever added, never moved or removed.

AVAILABLE TOOLS:
- create_session: Create a new world, optionally seeded from a config
- list_sessions / get_session: Inspect worlds
- add_obstacle: Place an obstacle
- list_obstacles: List obstacles in insertion order
- safe_directions: Which of N/S/E/W are open from a cell
- find_path: Shortest safe path between two cells
- render_map: Draw a rectangle of the grid
- list_configs: List world configurations
- world_instructions: Obstacle rules in detail`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func intProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new world session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Config to seed the world from (optional, see list_configs)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active world sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session, including its obstacles",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Obstacles
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "add_obstacle",
		Description: "Add an obstacle. fence needs end_x/end_y on the same row or column; sensor needs range > 0; camera needs direction; laser needs direction and duration > 0.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"kind": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"guard", "fence", "sensor", "camera", "laser"},
					"description": "Obstacle kind",
				},
				"x":     intProperty("Anchor x (fence start)"),
				"y":     intProperty("Anchor y (fence start)"),
				"end_x": intProperty("Fence end x"),
				"end_y": intProperty("Fence end y"),
				"range": map[string]interface{}{
					"type":        "number",
					"description": "Sensor range (Euclidean)",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"N", "S", "E", "W"},
					"description": "Camera or laser facing",
				},
				"duration": intProperty("Laser beat: every duration-th cell along the beam is blocked"),
			},
			Required: []string{"session_id", "kind", "x", "y"},
		},
	}, c.handleAddObstacle)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_obstacles",
		Description: "List a session's obstacles in insertion order",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleListObstacles)

	// Queries
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "safe_directions",
		Description: "Report which of N, S, E, W lead to unblocked cells from (x,y)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"x":          intProperty("Cell x"),
				"y":          intProperty("Cell y"),
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleSafeDirections)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "find_path",
		Description: "Find a shortest path of N/S/E/W steps that never enters a blocked cell",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"start_x":    intProperty("Start x"),
				"start_y":    intProperty("Start y"),
				"goal_x":     intProperty("Goal x"),
				"goal_y":     intProperty("Goal y"),
			},
			Required: []string{"session_id", "start_x", "start_y", "goal_x", "goal_y"},
		},
	}, c.handleFindPath)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "render_map",
		Description: "Render the rectangle (x1,y1)-(x2,y2). Omit the corners to render the world's default view.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"x1":         intProperty("Top-left x"),
				"y1":         intProperty("Top-left y"),
				"x2":         intProperty("Bottom-right x"),
				"y2":         intProperty("Bottom-right y"),
			},
			Required: []string{"session_id"},
		},
	}, c.handleRenderMap)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available world configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "world_instructions",
		Description: "Get the obstacle rules and map legend",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleWorldInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// intArg reads an integer argument. JSON numbers arrive as float64 and must
// not carry a fractional part.
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	}
	return 0, false
}

func requireInts(args map[string]interface{}, keys ...string) ([]int, error) {
	values := make([]int, len(keys))
	for i, key := range keys {
		v, ok := intArg(args, key)
		if !ok {
			return nil, fmt.Errorf("%s is required and must be an integer", key)
		}
		values[i] = v
	}
	return values, nil
}

// optionalInt reads an integer argument the caller may leave out; one that is
// present but not an integer is an error
func optionalInt(args map[string]interface{}, key string) (int, bool, error) {
	if args[key] == nil {
		return 0, false, nil
	}
	v, ok := intArg(args, key)
	if !ok {
		return 0, false, fmt.Errorf("%s must be an integer", key)
	}
	return v, true, nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\nObstacles: %d\n",
		session.ID, session.ConfigName, session.ObstacleCount)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Config: %s, Obstacles: %d, Created: %s)\n",
			s.ID, s.ConfigName, s.ObstacleCount, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleAddObstacle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	kind, _ := args["kind"].(string)

	xy, err := requireInts(args, "x", "y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	spec := engine.ObstacleSpec{
		Kind:     kind,
		Location: engine.Position{X: xy[0], Y: xy[1]},
	}
	endX, okX, err := optionalInt(args, "end_x")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	endY, okY, err := optionalInt(args, "end_y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if okX && okY {
		spec.End = &engine.Position{X: endX, Y: endY}
	}
	if rng, ok := args["range"].(float64); ok {
		spec.Range = rng
	}
	spec.Direction, _ = args["direction"].(string)
	if spec.Duration, _, err = optionalInt(args, "duration"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.ObstacleResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/obstacles"), spec, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Added %s (id %s)\nObstacles in world: %d\n",
		describeSpec(result.Obstacle.Spec), result.Obstacle.ID, result.ObstacleCount)), nil
}

func (c *Client) handleListObstacles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var obstacles []engine.Placed
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/obstacles"), nil, &obstacles); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatObstacles(obstacles)), nil
}

func (c *Client) handleSafeDirections(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	xy, err := requireInts(args, "x", "y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := url.Values{}
	query.Set("x", strconv.Itoa(xy[0]))
	query.Set("y", strconv.Itoa(xy[1]))

	var report service.SafetyResult
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/safety?"+query.Encode()), nil, &report); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSafety(report.SafetyReport)), nil
}

func (c *Client) handleFindPath(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	v, err := requireInts(args, "start_x", "start_y", "goal_x", "goal_y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body := map[string]engine.Position{
		"start": {X: v[0], Y: v[1]},
		"goal":  {X: v[2], Y: v[3]},
	}

	var response service.PathResponse
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/path"), body, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPath(&response)), nil
}

func (c *Client) handleRenderMap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	query := url.Values{}
	for _, key := range []string{"x1", "y1", "x2", "y2"} {
		v, ok, err := optionalInt(args, key)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if ok {
			query.Set(key, strconv.Itoa(v))
		}
	}

	path := sessionPath(sessionID, "/map")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var view engine.MapView
	if err := c.apiCall(ctx, "GET", path, nil, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if view.Empty() {
		return mcp.NewToolResultText("Nothing to draw: the bottom-right corner must be south-east of the top-left corner."), nil
	}
	return mcp.NewToolResultText(formatMap(view)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, config := range configs {
		result += fmt.Sprintf("• %s (config_id: %s)\n  %s\n  Obstacles: %d\n\n",
			config.Name, config.ConfigID, config.Description, config.ObstacleCount)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleWorldInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `SENTRY GRID RULES

COORDINATES
- Cells are integer (x, y) pairs with no bounds.
- N is y-1, S is y+1, E is x+1, W is x-1. Diagonal moves do not exist.

OBSTACLES (map symbol in brackets)
- guard [G]: blocks its own cell.
- fence [F]: blocks every cell on the straight segment between its two ends, inclusive.
  Both ends must share a row or a column and differ.
- sensor [S]: blocks every cell whose Euclidean distance to it is <= range.
- camera [C]: blocks its own cell and a 90 degree cone in its facing direction.
  Facing N it blocks (x', y') when y' < y and |x'-x| <= |y'-y|.
- laser [L]: blocks its own cell and every duration-th cell along its beam.
  Facing E with duration 2 it blocks x, x+2, x+4, ... on its row.

QUERIES
- safe_directions returns the open neighbours in N, S, E, W order.
  A cell that is itself blocked is reported as compromised with no directions.
- find_path returns a shortest sequence of moves. Outcomes:
  found, already_there, goal_blocked, no_path, search_limit.
- render_map draws '.' for open cells; when obstacles overlap the first one added wins.

Obstacles are permanent. Plan around them.`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\nView: (%d,%d)-(%d,%d)\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		session.View.TopLeft.X, session.View.TopLeft.Y,
		session.View.BottomRight.X, session.View.BottomRight.Y,
		formatObstacles(session.Obstacles))
}

func formatObstacles(obstacles []engine.Placed) string {
	if len(obstacles) == 0 {
		return "No obstacles.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Obstacles (%d):\n", len(obstacles))
	for i, o := range obstacles {
		fmt.Fprintf(&b, "%3d. [%s] %s\n", i+1, o.Symbol, describeSpec(o.Spec))
	}
	return b.String()
}

// describeSpec rebuilds the obstacle from its wire form for display
func describeSpec(spec engine.ObstacleSpec) string {
	o, err := engine.Build(spec)
	if err != nil {
		return fmt.Sprintf("%s at (%d,%d)", spec.Kind, spec.Location.X, spec.Location.Y)
	}
	return engine.Describe(o)
}

func formatSafety(report engine.SafetyReport) string {
	p := report.Position
	if report.Blocked {
		return fmt.Sprintf("Position (%d,%d) is COMPROMISED (blocked by %s). No safe directions.", p.X, p.Y, report.BlockedBy)
	}
	if len(report.Safe) == 0 {
		return fmt.Sprintf("Position (%d,%d) is open but every neighbour is blocked.", p.X, p.Y)
	}

	names := make([]string, len(report.Safe))
	for i, d := range report.Safe {
		names[i] = fmt.Sprintf("%s (%s)", d, d.Name())
	}
	return fmt.Sprintf("Safe directions from (%d,%d): %s", p.X, p.Y, strings.Join(names, ", "))
}

func formatPath(response *service.PathResponse) string {
	s, g := response.Start, response.Goal
	header := fmt.Sprintf("From (%d,%d) to (%d,%d): ", s.X, s.Y, g.X, g.Y)

	switch response.Outcome {
	case engine.PathFound:
		return header + fmt.Sprintf("%d moves\nPath: %s\nDetour: %d\nExplored: %d cells",
			len(response.Moves), response.Path, response.Detour, response.Explored)
	case engine.AlreadyThere:
		return header + "already there"
	case engine.GoalBlocked:
		return header + "the goal is compromised"
	case engine.SearchLimit:
		return header + fmt.Sprintf("search stopped after exploring %d cells; the goal is probably enclosed", response.Explored)
	default:
		return header + "no safe path exists"
	}
}

func formatMap(view engine.MapView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Map (%d,%d)-(%d,%d):\n", view.TopLeft.X, view.TopLeft.Y, view.BottomRight.X, view.BottomRight.Y)
	for i, row := range view.Rows {
		fmt.Fprintf(&b, "%5d %s\n", view.TopLeft.Y+i, row)
	}
	b.WriteString("Legend: . open, G guard, F fence, S sensor, C camera, L laser")
	return b.String()
}
