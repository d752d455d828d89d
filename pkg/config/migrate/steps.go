package migrate

import "redkeep-hq/redkeep/pkg/config"

// Schema versions this build knows how to read. Documents at any of
// these versions migrate forward step by step to config.CurrentSchemaVersion.
const (
	// Version100 is the oldest shape: flat redis and service sections
	// with a top-level WSL distribution name.
	Version100 = "1.0.0"

	// Version110 added the monitoring section.
	Version110 = "1.1.0"

	// Version200 introduced the backend discriminator: a backendType
	// key plus wsl2 and docker sections. The top-level distribution key
	// moved into wsl2.
	Version200 = "2.0.0"

	// Version210 added the performance section and renamed
	// redis.maxmemory to redis.memoryLimit.
	Version210 = "2.1.0"

	// Version220 added the advanced and metadata sections. The version
	// tag moved from the top level into metadata.schemaVersion.
	Version220 = "2.2.0"
)

// Step is one migration in the chain. Apply mutates the tree from the
// From shape to the To shape; the engine tags the tree with To afterwards
// so an interrupted chain still leaves a consistently-tagged document.
type Step struct {
	// From is the schema version the step reads.
	From string

	// To is the schema version the step produces.
	To string

	// Description says what the step changes, for logs and reports.
	Description string

	apply func(tree map[string]any)
}

// defaultSteps is the ordered chain from the oldest readable version to
// the current one.
func defaultSteps() []Step {
	return []Step{
		{
			From:        Version100,
			To:          Version110,
			Description: "add monitoring section",
			apply:       addMonitoringSection,
		},
		{
			From:        Version110,
			To:          Version200,
			Description: "introduce backend discriminator and move distribution under wsl2",
			apply:       introduceBackends,
		},
		{
			From:        Version200,
			To:          Version210,
			Description: "add performance section and rename redis.maxmemory to redis.memoryLimit",
			apply:       addPerformanceAndRenameMemory,
		},
		{
			From:        Version210,
			To:          Version220,
			Description: "add advanced and metadata sections",
			apply:       addAdvancedAndMetadata,
		},
	}
}

func addMonitoringSection(tree map[string]any) {
	if _, ok := tree["monitoring"]; ok {
		return
	}
	tree["monitoring"] = map[string]any{
		"healthCheckIntervalSeconds": config.DefaultHealthCheckIntervalSeconds,
		"healthCheckTimeoutSeconds":  config.DefaultHealthCheckTimeoutSeconds,
		"verboseLogging":             false,
		"maxLogSizeMB":               config.DefaultMaxLogSizeMB,
		"maxLogFiles":                config.DefaultMaxLogFiles,
	}
}

func introduceBackends(tree map[string]any) {
	wsl2 := map[string]any{
		"distribution":          config.DefaultWSL2Distribution,
		"binaryPath":            config.DefaultWSL2BinaryPath,
		"startupTimeoutSeconds": config.DefaultWSL2StartupTimeoutSeconds,
	}
	if d, ok := tree["distribution"].(string); ok && d != "" {
		wsl2["distribution"] = d
	}
	if p, ok := tree["binaryPath"].(string); ok && p != "" {
		wsl2["binaryPath"] = p
	}
	delete(tree, "distribution")
	delete(tree, "binaryPath")

	// Every pre-2.0 document described a WSL2 deployment.
	tree["backendType"] = config.BackendWSL2
	tree["wsl2"] = wsl2
	if _, ok := tree["docker"]; !ok {
		tree["docker"] = map[string]any{
			"image":         config.DefaultDockerImage,
			"containerName": config.DefaultDockerContainerName,
			"volume":        config.DefaultDockerVolume,
		}
	}
}

func addPerformanceAndRenameMemory(tree map[string]any) {
	if redis, ok := tree["redis"].(map[string]any); ok {
		if v, ok := redis["maxmemory"]; ok {
			if _, exists := redis["memoryLimit"]; !exists {
				redis["memoryLimit"] = v
			}
			delete(redis, "maxmemory")
		}
	}

	if _, ok := tree["performance"]; !ok {
		tree["performance"] = map[string]any{
			"autoRestart":            config.DefaultAutoRestart,
			"maxRestartAttempts":     config.DefaultMaxRestartAttempts,
			"restartCooldownSeconds": config.DefaultRestartCooldownSeconds,
			"memoryWarningPercent":   config.DefaultMemoryWarningPercent,
			"memoryCriticalPercent":  config.DefaultMemoryCriticalPercent,
		}
	}
}

func addAdvancedAndMetadata(tree map[string]any) {
	if _, ok := tree["advanced"]; !ok {
		tree["advanced"] = map[string]any{
			"customArgs":     []any{},
			"environment":    map[string]any{},
			"preStartScript": "",
			"postStopScript": "",
		}
	}

	meta, ok := tree["metadata"].(map[string]any)
	if !ok {
		meta = map[string]any{}
		tree["metadata"] = meta
	}
	if _, ok := meta["createdBy"]; !ok {
		meta["createdBy"] = "redkeep migration"
	}
	if notes, ok := tree["notes"].(string); ok {
		if _, exists := meta["notes"]; !exists {
			meta["notes"] = notes
		}
		delete(tree, "notes")
	}
}
