package services

import (
	"fmt"
	"sort"

	"github.com/lborres/taskpulse/core"
)

// OperationIDs of the base endpoints. Adapters bind their handlers by these.
const (
	OpRoot              = "root"
	OpHealth            = "health"
	OpListTasks         = "listTasks"
	OpCreateTask        = "createTask"
	OpCompleteTask      = "completeTask"
	OpUpdateTask        = "updateTask"
	OpDeleteTask        = "deleteTask"
	OpDecompose         = "decomposeTask"
	OpMotivation        = "motivation"
	OpAnalytics         = "getUserAnalytics"
	OpDailyAnalysis     = "getDailyAnalysis"
	OpGetProfile        = "getUserProfile"
	OpUpdateProfile     = "updateUserProfile"
	OpCreateUser        = "createUser"
	OpSyncUser          = "syncUserFromMessenger"
	OpUserStats         = "getUserStats"
	OpTodayStats        = "getTodayStats"
	OpDailyStats        = "getDailyStats"
	OpProductivityStats = "getProductivityStats"
	OpSyncWithBot       = "syncWithBot"
	OpBotTasks          = "getBotTasks"
	OpSyncUsers         = "syncUsers"
	OpDebugUser         = "debugUser"
)

func endpoint(method, path, opID, desc string) core.Endpoint {
	return core.Endpoint{
		Path:   path,
		Method: method,
		Metadata: core.EndpointMetadata{
			OperationID: opID,
			Description: desc,
		},
	}
}

func adminEndpoint(method, path, opID, desc string) core.Endpoint {
	ep := endpoint(method, path, opID, desc)
	ep.Metadata.Admin = true
	return ep
}

// BaseEndpoints returns framework-agnostic endpoint definitions
// for the task API.
//
// Each endpoint is a template:
// - Path and Method are set
// - Handler is nil (provided by adapters)
// - Metadata names the operation and marks admin-only routes
func BaseEndpoints() []core.Endpoint {
	return []core.Endpoint{
		endpoint("GET", "/", OpRoot, "Service banner"),
		endpoint("GET", "/health", OpHealth, "Health check"),

		endpoint("GET", "/tasks/list", OpListTasks, "List the user's tasks, newest first"),
		endpoint("POST", "/tasks/create", OpCreateTask, "Create a task"),
		endpoint("POST", "/tasks/complete", OpCompleteTask, "Mark a task as done"),
		endpoint("PATCH", "/tasks/:id", OpUpdateTask, "Update a task"),
		endpoint("DELETE", "/tasks/:id", OpDeleteTask, "Delete a task"),
		endpoint("GET", "/tasks/decompose", OpDecompose, "Suggest steps for a task title"),
		endpoint("GET", "/motivation", OpMotivation, "Random motivational quote"),

		endpoint("GET", "/user/analytics", OpAnalytics, "Daily score"),
		endpoint("GET", "/user/daily-analysis", OpDailyAnalysis, "Completion-ratio daily analysis with recommendation"),
		endpoint("GET", "/user/profile", OpGetProfile, "Get the user's profile"),
		endpoint("PUT", "/user/profile", OpUpdateProfile, "Update the user's profile"),
		endpoint("POST", "/user/create", OpCreateUser, "Create a user"),
		endpoint("POST", "/user/sync", OpSyncUser, "Sync profile data from the messenger"),
		endpoint("GET", "/user/stats", OpUserStats, "Full user statistics"),
		endpoint("GET", "/user/today-stats", OpTodayStats, "Counters for today"),
		endpoint("GET", "/user/daily-stats", OpDailyStats, "Daily counters with a verdict"),
		endpoint("GET", "/user/productivity-stats", OpProductivityStats, "Productivity temperature and streak"),
		endpoint("POST", "/user/sync-with-bot", OpSyncWithBot, "Reconcile the web account with the bot account"),
		endpoint("GET", "/user/bot-tasks", OpBotTasks, "List the bot account's tasks"),

		adminEndpoint("POST", "/sync/users", OpSyncUsers, "Copy missing tasks from one account to another"),
		adminEndpoint("GET", "/debug/user/:external_id", OpDebugUser, "Debug view of an account"),
	}
}

// EndpointRegistry manages a collection of framework-agnostic endpoints
// and handles conflict detection for duplicate METHOD:PATH combinations.
type EndpointRegistry struct {
	// endpoints stores all registered endpoints keyed by "METHOD:PATH"
	endpoints map[string]*core.Endpoint
}

// NewEndpointRegistry creates a new registry with all base endpoints
// pre-registered.
func NewEndpointRegistry() *EndpointRegistry {
	reg := &EndpointRegistry{
		endpoints: make(map[string]*core.Endpoint),
	}

	base := BaseEndpoints()
	for i := range base {
		// base endpoints are unique by construction
		_ = reg.register(&base[i])
	}

	return reg
}

func endpointKey(ep *core.Endpoint) string {
	return fmt.Sprintf("%s:%s", ep.Method, ep.Path)
}

// register adds a single endpoint to the registry with conflict detection.
func (r *EndpointRegistry) register(ep *core.Endpoint) error {
	key := endpointKey(ep)

	if _, exists := r.endpoints[key]; exists {
		return fmt.Errorf("endpoint conflict: %s %s already registered", ep.Method, ep.Path)
	}

	r.endpoints[key] = ep
	return nil
}

// RegisterPlugin registers additional endpoints to the registry.
// Returns error if any endpoint conflicts with existing endpoints
// or with other endpoints in the same batch.
//
// If an error occurs, nothing from the batch is registered.
func (r *EndpointRegistry) RegisterPlugin(endpoints []core.Endpoint) error {
	seen := make(map[string]bool)
	for i := range endpoints {
		key := endpointKey(&endpoints[i])

		if _, exists := r.endpoints[key]; exists {
			return fmt.Errorf("plugin endpoint conflict: %s %s already registered", endpoints[i].Method, endpoints[i].Path)
		}
		if seen[key] {
			return fmt.Errorf("plugin contains duplicate endpoint: %s %s", endpoints[i].Method, endpoints[i].Path)
		}
		seen[key] = true
	}

	for i := range endpoints {
		r.endpoints[endpointKey(&endpoints[i])] = &endpoints[i]
	}

	return nil
}

// Endpoints returns all registered endpoints sorted by path then method,
// so that routers see a stable registration order.
func (r *EndpointRegistry) Endpoints() []*core.Endpoint {
	result := make([]*core.Endpoint, 0, len(r.endpoints))
	for _, ep := range r.endpoints {
		result = append(result, ep)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Path != result[j].Path {
			return result[i].Path < result[j].Path
		}
		return result[i].Method < result[j].Method
	})
	return result
}
