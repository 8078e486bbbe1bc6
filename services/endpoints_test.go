package services

import (
	"testing"

	"github.com/lborres/taskpulse/core"
)

// Requirement: BaseEndpoints returns framework-agnostic endpoint definitions
// with paths, methods, operation IDs, and nil handlers (templates).
func TestBaseEndpoints(t *testing.T) {
	tests := []struct {
		name       string
		wantMethod string
		wantPath   string
		wantOpID   string
		wantAdmin  bool
	}{
		{name: "root banner", wantMethod: "GET", wantPath: "/", wantOpID: OpRoot},
		{name: "health", wantMethod: "GET", wantPath: "/health", wantOpID: OpHealth},
		{name: "list tasks", wantMethod: "GET", wantPath: "/tasks/list", wantOpID: OpListTasks},
		{name: "create task", wantMethod: "POST", wantPath: "/tasks/create", wantOpID: OpCreateTask},
		{name: "complete task", wantMethod: "POST", wantPath: "/tasks/complete", wantOpID: OpCompleteTask},
		{name: "update task", wantMethod: "PATCH", wantPath: "/tasks/:id", wantOpID: OpUpdateTask},
		{name: "delete task", wantMethod: "DELETE", wantPath: "/tasks/:id", wantOpID: OpDeleteTask},
		{name: "decompose", wantMethod: "GET", wantPath: "/tasks/decompose", wantOpID: OpDecompose},
		{name: "motivation", wantMethod: "GET", wantPath: "/motivation", wantOpID: OpMotivation},
		{name: "analytics", wantMethod: "GET", wantPath: "/user/analytics", wantOpID: OpAnalytics},
		{name: "daily analysis", wantMethod: "GET", wantPath: "/user/daily-analysis", wantOpID: OpDailyAnalysis},
		{name: "get profile", wantMethod: "GET", wantPath: "/user/profile", wantOpID: OpGetProfile},
		{name: "update profile", wantMethod: "PUT", wantPath: "/user/profile", wantOpID: OpUpdateProfile},
		{name: "create user", wantMethod: "POST", wantPath: "/user/create", wantOpID: OpCreateUser},
		{name: "sync profile", wantMethod: "POST", wantPath: "/user/sync", wantOpID: OpSyncUser},
		{name: "user stats", wantMethod: "GET", wantPath: "/user/stats", wantOpID: OpUserStats},
		{name: "today stats", wantMethod: "GET", wantPath: "/user/today-stats", wantOpID: OpTodayStats},
		{name: "daily stats", wantMethod: "GET", wantPath: "/user/daily-stats", wantOpID: OpDailyStats},
		{name: "productivity stats", wantMethod: "GET", wantPath: "/user/productivity-stats", wantOpID: OpProductivityStats},
		{name: "sync with bot", wantMethod: "POST", wantPath: "/user/sync-with-bot", wantOpID: OpSyncWithBot},
		{name: "bot tasks", wantMethod: "GET", wantPath: "/user/bot-tasks", wantOpID: OpBotTasks},
		{name: "sync users is admin only", wantMethod: "POST", wantPath: "/sync/users", wantOpID: OpSyncUsers, wantAdmin: true},
		{name: "debug user is admin only", wantMethod: "GET", wantPath: "/debug/user/:external_id", wantOpID: OpDebugUser, wantAdmin: true},
	}

	// Arrange
	endpoints := BaseEndpoints()

	if len(endpoints) != len(tests) {
		t.Fatalf("BaseEndpoints should return %d endpoints, got %d", len(tests), len(endpoints))
	}

	byRoute := make(map[string]core.Endpoint, len(endpoints))
	for _, ep := range endpoints {
		byRoute[ep.Method+" "+ep.Path] = ep
	}

	// Act & Assert
	for _, test := range tests {
		test := test // capture range variable
		t.Run(test.name, func(t *testing.T) {
			ep, found := byRoute[test.wantMethod+" "+test.wantPath]
			if !found {
				t.Fatalf("BaseEndpoints should include %s %s", test.wantMethod, test.wantPath)
			}
			if ep.Metadata.OperationID != test.wantOpID {
				t.Errorf("OperationID = %q, want %q", ep.Metadata.OperationID, test.wantOpID)
			}
			if ep.Metadata.Admin != test.wantAdmin {
				t.Errorf("Admin = %v, want %v", ep.Metadata.Admin, test.wantAdmin)
			}
			if ep.Metadata.Description == "" {
				t.Error("endpoint should carry a description")
			}
			if ep.Handler != nil {
				t.Error("base endpoint handler should be nil")
			}
		})
	}
}

// Requirement: All endpoints must have unique OperationIDs.
func TestBaseEndpoints_OperationIDsAreUnique(t *testing.T) {
	operationIDs := make(map[string]bool)
	for _, ep := range BaseEndpoints() {
		if operationIDs[ep.Metadata.OperationID] {
			t.Errorf("BaseEndpoints contains duplicate OperationID: %q", ep.Metadata.OperationID)
		}
		operationIDs[ep.Metadata.OperationID] = true
	}
}

// Requirement: EndpointRegistry registers all base endpoints on creation
// and returns them in a stable path-then-method order.
func TestEndpointRegistry_RegistersBaseEndpoints(t *testing.T) {
	// Arrange & Act
	registry := NewEndpointRegistry()

	// Assert
	endpoints := registry.Endpoints()
	if len(endpoints) != len(BaseEndpoints()) {
		t.Fatalf("EndpointRegistry should register %d base endpoints; got %d", len(BaseEndpoints()), len(endpoints))
	}

	for i := 1; i < len(endpoints); i++ {
		prev, cur := endpoints[i-1], endpoints[i]
		if prev.Path > cur.Path || (prev.Path == cur.Path && prev.Method > cur.Method) {
			t.Errorf("Endpoints() out of order: %s %s before %s %s", prev.Method, prev.Path, cur.Method, cur.Path)
		}
	}
}

// Requirement: EndpointRegistry detects and rejects duplicate endpoint registrations
// (same METHOD:PATH combination).
func TestEndpointRegistry_DetectsConflicts(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		method  string
		wantErr bool
	}{
		{name: "rejects duplicate POST /tasks/create", path: "/tasks/create", method: "POST", wantErr: true},
		{name: "rejects duplicate PATCH /tasks/:id", path: "/tasks/:id", method: "PATCH", wantErr: true},
		{name: "allows different path same method", path: "/tasks/archive", method: "POST", wantErr: false},
		{name: "allows same path different method", path: "/tasks/create", method: "GET", wantErr: false},
	}

	for _, test := range tests {
		test := test // capture range variable
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			registry := NewEndpointRegistry()

			// Act
			err := registry.RegisterPlugin([]core.Endpoint{pluginEndpoint(test.method, test.path, "customOp")})

			// Assert
			if (err != nil) != test.wantErr {
				t.Errorf("RegisterPlugin should error=%v; got error=%v (%v)", test.wantErr, err != nil, err)
			}
		})
	}
}

// Requirement: plugin batches register all-or-nothing.
func TestEndpointRegistry_RegistersPluginEndpoints(t *testing.T) {
	base := len(BaseEndpoints())

	tests := []struct {
		name           string
		plugins        []core.Endpoint
		wantTotalCount int
		wantErr        bool
	}{
		{
			name:           "registers single plugin endpoint",
			plugins:        []core.Endpoint{pluginEndpoint("GET", "/tasks/export", "exportTasks")},
			wantTotalCount: base + 1,
		},
		{
			name: "registers multiple plugin endpoints",
			plugins: []core.Endpoint{
				pluginEndpoint("GET", "/tasks/export", "exportTasks"),
				pluginEndpoint("POST", "/tasks/import", "importTasks"),
				pluginEndpoint("GET", "/user/streak", "getStreak"),
			},
			wantTotalCount: base + 3,
		},
		{
			name: "rejects duplicates within the batch",
			plugins: []core.Endpoint{
				pluginEndpoint("GET", "/tasks/export", "exportTasks"),
				pluginEndpoint("GET", "/tasks/export", "exportTasksAgain"),
			},
			wantTotalCount: base,
			wantErr:        true,
		},
		{
			name: "a late conflict keeps earlier batch members out",
			plugins: []core.Endpoint{
				pluginEndpoint("GET", "/tasks/export", "exportTasks"),
				pluginEndpoint("GET", "/health", "healthAgain"),
			},
			wantTotalCount: base,
			wantErr:        true,
		},
	}

	for _, test := range tests {
		test := test // capture range variable
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			registry := NewEndpointRegistry()

			// Act
			err := registry.RegisterPlugin(test.plugins)

			// Assert
			if (err != nil) != test.wantErr {
				t.Errorf("RegisterPlugin should error=%v; got error=%v", test.wantErr, err != nil)
			}
			if got := len(registry.Endpoints()); got != test.wantTotalCount {
				t.Errorf("EndpointRegistry should have %d endpoints; got %d", test.wantTotalCount, got)
			}
		})
	}
}

func pluginEndpoint(method, path, opID string) core.Endpoint {
	return core.Endpoint{
		Path:   path,
		Method: method,
		Metadata: core.EndpointMetadata{
			OperationID: opID,
			Description: "Plugin endpoint",
		},
	}
}
