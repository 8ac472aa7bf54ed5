package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/bobmcallan/saas-mcp/internal/registry"
	"github.com/bobmcallan/saas-mcp/internal/tooldef"
)

// placeholderDefs are tools with a declared interface and no behaviour yet.
var placeholderDefs = []tooldef.ToolDef{
	{
		Name:        "fullstack_epct",
		Description: "Generate a full-stack project through the expand, plan, code and test workflow.",
		Params: []tooldef.ParamDef{
			tooldef.String("projectType", "Project type", true, "saas", "ecommerce", "blog", "dashboard", "game"),
			tooldef.String("name", "Project name (generated when omitted)", false),
			tooldef.StringArray("features", "Features to include", false),
			tooldef.String("targetDir", "Output directory", false),
			tooldef.Boolean("parallel", "Run stages in parallel (default: true)", false),
		},
	},
	{
		Name:        "subagent_research",
		Description: "Research a topic and produce a structured report.",
		Params: []tooldef.ParamDef{
			tooldef.String("topic", "Research topic", true),
			tooldef.StringArray("sources", "Reference sources", false),
			tooldef.String("depth", "Research depth", false, "quick", "medium", "deep"),
		},
	},
	{
		Name:        "subagent_review",
		Description: "Review a project for code quality, security and performance.",
		Params: []tooldef.ParamDef{
			tooldef.String("projectPath", "Project path", true),
			tooldef.String("focus", "Review focus", false, "security", "performance", "quality", "all"),
		},
	},
	{
		Name:        "subagent_test",
		Description: "Generate and run unit, integration and end-to-end tests.",
		Params: []tooldef.ParamDef{
			tooldef.String("projectPath", "Project path", true),
			tooldef.String("testType", "Test type", false, "unit", "integration", "e2e", "all"),
			tooldef.Boolean("generateMissing", "Generate missing tests", false),
		},
	},
	{
		Name:        "asset_generator",
		Description: "Generate favicons, Open Graph images and logos for a project.",
		Params: []tooldef.ParamDef{
			tooldef.String("projectName", "Project name", true),
			tooldef.String("style", "Visual style", false, "modern", "retro", "minimal", "bold"),
			tooldef.StringArray("colors", "Brand colors", false),
			tooldef.Boolean("generateAll", "Generate every asset", false),
		},
	},
	{
		Name:        "elegant_ui",
		Description: "Generate a UI component with shadcn/ui and Tailwind.",
		Params: []tooldef.ParamDef{
			tooldef.String("componentType", "Component type", true, "landing", "dashboard", "auth", "profile", "settings"),
			tooldef.String("style", "Design style", false, "modern", "minimal", "corporate", "creative"),
			tooldef.String("colorScheme", "Color scheme", false, "blue", "purple", "green", "custom"),
			tooldef.StringArray("features", "Extra features", false),
		},
	},
	{
		Name:        "auto_deploy",
		Description: "Deploy a project to a hosting platform.",
		Params: []tooldef.ParamDef{
			tooldef.String("platform", "Target platform", true, "vercel", "netlify", "docker", "aws"),
			tooldef.String("projectPath", "Project path", false),
			tooldef.Object("envVars", "Environment variables to set", false),
			tooldef.Boolean("domainSetup", "Configure a custom domain", false),
		},
		OpenWorld: true,
	},
	{
		Name:        "skill_docs",
		Description: "Generate project documentation.",
		Params: []tooldef.ParamDef{
			tooldef.String("projectPath", "Project path", true),
			tooldef.String("docType", "Documentation type", false, "api", "components", "setup", "full"),
			tooldef.String("format", "Output format", false, "markdown", "notion", "confluence"),
		},
	},
	{
		Name:        "skill_refactor",
		Description: "Refactor project code against a set of rules.",
		Params: []tooldef.ParamDef{
			tooldef.String("projectPath", "Project path", true),
			tooldef.String("target", "Refactoring target", false, "components", "utils", "api", "all"),
			tooldef.StringArray("rules", "Rules to apply", false),
		},
	},
	{
		Name:        "skill_optimize",
		Description: "Optimize runtime performance, bundle size or images.",
		Params: []tooldef.ParamDef{
			tooldef.String("projectPath", "Project path", true),
			tooldef.String("optimizeType", "Optimization type", false, "performance", "bundle", "images", "all"),
			tooldef.Boolean("aggressive", "Apply aggressive optimizations", false),
		},
	},
	{
		Name:        "fix_epct",
		Description: "Diagnose and fix build, runtime or test errors.",
		Params: []tooldef.ParamDef{
			tooldef.String("projectPath", "Project path", true),
			tooldef.String("errorType", "Error type", false, "build", "runtime", "test", "all"),
			tooldef.Boolean("autoApply", "Apply fixes automatically", false),
		},
	},
	{
		Name:        "smart_scaffold",
		Description: "Scaffold a SaaS project from a framework template with AI features and integrations.",
		Params: []tooldef.ParamDef{
			tooldef.String("projectName", "Project name", true),
			tooldef.String("template", "Framework template", true, "nextjs-saas", "remix-saas", "sveltekit-saas", "astro-saas"),
			tooldef.StringArray("ai_features", "AI features", false),
			tooldef.StringArray("integrations", "Integrations", false),
		},
	},
	{
		Name:        "batch_process",
		Description: "Run one operation across several projects.",
		Params: []tooldef.ParamDef{
			tooldef.String("operation", "Operation", true, "format", "lint", "test", "build", "type-check"),
			tooldef.StringArray("projects", "Project paths", true),
			tooldef.Boolean("parallel", "Run projects in parallel", false),
		},
	},
}

func placeholders() []registry.Tool {
	out := make([]registry.Tool, len(placeholderDefs))
	for i, def := range placeholderDefs {
		out[i] = tool(def, placeholderHandler(def.Name))
	}
	return out
}

// placeholderHandler answers with a fixed report that echoes the accepted
// arguments in key order.
func placeholderHandler(name string) registry.Handler {
	return registry.HandlerFunc(func(_ context.Context, args map[string]any) (string, error) {
		var b strings.Builder
		fmt.Fprintf(&b, "🚧 %s is not implemented yet. No work was performed.", name)

		keys := make([]string, 0, len(args))
		for k := range args {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if len(keys) > 0 {
			b.WriteString("\n\nAccepted arguments:")
		}
		for _, k := range keys {
			v, err := json.Marshal(args[k])
			if err != nil {
				return "", fmt.Errorf("failed to encode argument %q: %w", k, err)
			}
			fmt.Fprintf(&b, "\n- %s: %s", k, v)
		}
		return b.String(), nil
	})
}
