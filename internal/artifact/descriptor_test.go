package artifact

import "testing"

func TestParseEntrypoint(t *testing.T) {
	t.Parallel()

	module, object, err := ParseEntrypoint("app.agent_engine_app:agent_engine")
	if err != nil {
		t.Fatalf("ParseEntrypoint: %v", err)
	}
	if module != "app.agent_engine_app" {
		t.Fatalf("module = %q, want %q", module, "app.agent_engine_app")
	}
	if object != "agent_engine" {
		t.Fatalf("object = %q, want %q", object, "agent_engine")
	}
}

func TestParseEntrypoint_Malformed(t *testing.T) {
	t.Parallel()

	for _, ref := range []string{
		"app.agent_engine_app",
		":agent_engine",
		"app.agent_engine_app:",
		"app..engine:agent",
		"app.1bad:agent",
		"app.mod:agent-engine",
	} {
		if _, _, err := ParseEntrypoint(ref); err == nil {
			t.Fatalf("ParseEntrypoint accepted %q", ref)
		}
	}
}
