package gateway

import "sort"

// deniedNames lists script-namespace members that must never be exposed as
// tools. They are either implementation details, require a human in the loop,
// drive the script runner, block the calling worker or are not functions at
// all but names the script module happens to re-export.
var deniedNames = map[string]bool{
	// Internal helpers
	"_file_dialog":                     true,
	"current_functions":                true,
	"extract_fields_from_check_text":   true,
	"extract_fields_from_cmd_text":     true,
	"extract_fields_from_set_tlm_text": true,
	"extract_fields_from_tlm_text":     true,
	"extract_string_kwargs_to_args":    true,
	"initialize_offline_access":        true,
	"offline_access_needed":            true,
	"set_offline_access":               true,
	"remove_quotes":                    true,
	"is_array":                         true,
	"is_float":                         true,
	"is_hex":                           true,
	"is_int":                           true,
	"hex_to_byte_string":               true,
	"convert_to_value":                 true,
	"normalize_tlm":                    true,

	// Interactive prompts and dialogs
	"ask":                  true,
	"ask_string":           true,
	"combo_box":            true,
	"message_box":          true,
	"vertical_message_box": true,
	"prompt":               true,
	"open_file_dialog":     true,
	"open_files_dialog":    true,
	"cosmos_calendar":      true,

	// Screen management
	"clear_all_screens":     true,
	"clear_screen":          true,
	"create_screen":         true,
	"delete_screen":         true,
	"display_screen":        true,
	"get_screen_definition": true,
	"get_screen_list":       true,
	"local_screen":          true,
	"screen":                true,

	// Script runner controls
	"disconnect_script": true,
	"goto":              true,
	"load_utility":      true,
	"shutdown_script":   true,
	"start":             true,
	"step_mode":         true,
	"run_mode":          true,

	// Re-exported modules
	"contextmanager": true,
	"datetime":       true,
	"exceptions":     true,
	"func":           true,
	"function":       true,
	"io":             true,
	"json":           true,
	"method":         true,
	"openc3":         true,
	"os":             true,
	"re":             true,
	"requests":       true,
	"sys":            true,
	"tempfile":       true,
	"threading":      true,
	"time":           true,
	"typing":         true,
	"storage":        true,
	"code":           true,

	// Re-exported classes
	"ApiServerProxy":               true,
	"ScriptServerProxy":            true,
	"LocalMode":                    true,
	"Packet":                       true,
	"CheckError":                   true,
	"CriticalCmdError":             true,
	"HazardousError":               true,
	"SkipScript":                   true,
	"StopScript":                   true,
	"OpenC3KeycloakAuthentication": true,
	"Optional":                     true,

	// Constants
	"API_SERVER":                  true,
	"ARRAY_CHECK_REGEX":           true,
	"DEFAULT_TLM_POLLING_RATE":    true,
	"DISCONNECT":                  true,
	"FLOAT_CHECK_REGEX":           true,
	"HEX_CHECK_REGEX":             true,
	"INT_CHECK_REGEX":             true,
	"LIMITS_METHODS":              true,
	"OPENC3_CLOUD":                true,
	"OPENC3_IN_CLUSTER":           true,
	"OPENC3_KEYCLOAK_URL":         true,
	"OPENC3_SCOPE":                true,
	"RUNNING_SCRIPT":              true,
	"SCANNING_REGULAR_EXPRESSION": true,
	"SCIENTIFIC_CHECK_REGEX":      true,
	"SCRIPT_RUNNER_API_SERVER":    true,
	"SPLIT_WITH_REGEX":            true,
	"WHITELIST":                   true,

	// Blocking waits
	"openc3_script_sleep":   true,
	"wait":                  true,
	"wait_check":            true,
	"wait_check_expression": true,
	"wait_check_packet":     true,
	"wait_check_tolerance":  true,
	"wait_expression":       true,
	"wait_packet":           true,
	"wait_tolerance":        true,
}

// DeniedNames returns the built-in denylist, sorted.
func DeniedNames() []string {
	names := make([]string, 0, len(deniedNames))
	for name := range deniedNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// isDeniedByDefault checks if a name is on the built-in denylist
func isDeniedByDefault(name string) bool {
	return deniedNames[name]
}
