package prompts

const analyzeSpec = `Respond with a JSON object matching this exact structure:

{
  "name": "<app name>",
  "description": "<one sentence summary>",
  "agents": [
    {
      "name": "<agent name>",
      "purpose": "<what this agent does>",
      "tools": ["<tool1>", "<tool2>"]
    }
  ],
  "workflow": {
    "steps": ["<step1>", "<step2>"],
    "dependencies": ["<dependency>"]
  },
  "ui": {
    "components": ["<component1>"],
    "layouts": ["<layout1>"]
  },
  "integrations": ["<integration>"]
}

Field constraints:
- name: Short identifier for the app derived from the requirements,
  suitable for use as a project name.
- description: One sentence describing what the app does.
- agents: At least one agent. Each name is a short identifier, purpose
  a single sentence, tools the list of capabilities the agent needs.
- workflow.steps: Ordered list of processing steps from input to output.
- workflow.dependencies: Cross-step dependencies, empty when steps are
  strictly sequential.
- ui.components: Interface elements the app needs (forms, tables,
  viewers). ui.layouts: how they are arranged (e.g., single_column,
  sidebar, tabs).
- integrations: External services or APIs, empty when none are needed.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Output ONLY the JSON object, no surrounding text or explanations
- Every field must be present; use empty arrays rather than omitting keys`

const agentsSpec = `Respond with a JSON object matching this exact structure:

{
  "files": {
    "<filename>.py": "<complete file content>"
  }
}

Field constraints:
- files: Map of filename to complete Python source. One module per agent
  named after the agent (e.g., "research_agent.py"), plus "tools.py" when
  shared tool functions exist. Filenames are flat, no directories.
- Each value is the entire file content, including all imports.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- File contents must be complete, syntactically valid Python
- Escape newlines and quotes correctly so the JSON parses
- When the prompt requests tests, include a "test_agents.py" module
  exercising each agent's processing logic`

const workflowSpec = `Respond with a JSON object matching this exact structure:

{
  "files": {
    "workflow.py": "<complete file content>"
  }
}

Field constraints:
- files: Map of filename to complete Python source. The Temporal
  implementation lives in "workflow.py"; a separate "worker.py" entry
  is permitted when a standalone worker process clarifies the design.
- Each value is the entire file content, including activity definitions,
  the workflow class, error handling, and retry policies.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- File contents must be complete, syntactically valid Python
- Import agents from the agent modules generated earlier in the run`

const uiSpec = `Respond with a JSON object matching this exact structure:

{
  "files": {
    "app.py": "<complete file content>"
  }
}

Field constraints:
- files: Map containing exactly one entry, "app.py", whose value is the
  complete Streamlit script.
- The script must import streamlit and invoke the agent code referenced
  in the prompt.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- The file content must be a single, runnable Streamlit script
- Escape newlines and quotes correctly so the JSON parses`

const reviewSpec = `Respond with a JSON object matching this exact structure:

{
  "files": {
    "<filename>.py": "<complete corrected file content>"
  }
}

Field constraints:
- files: Map of filename to corrected Python source. Include EVERY file
  provided in the prompt, using the exact same filenames, whether or not
  the file needed changes.
- Each value is the entire corrected file content, never a diff or
  fragment.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Never add or remove files; the output file set must match the input
- Fix defects only; preserve the structure and intent of the original`

const deploySpec = `Respond with plain markdown text containing the deployment instructions.

Format constraints:
- Use numbered steps a developer can follow top to bottom
- Place shell commands in fenced code blocks
- Include a dependency installation step and an application start step
- For Docker targets, include the Dockerfile content and any compose
  configuration inline as fenced code blocks
- For cloud targets, include the provider-specific provisioning steps
  before the application steps

Behavioral constraints:
- Respond with markdown only, no JSON wrapper
- Reference only the files named in the prompt`

var specs = map[Stage]string{
	StageAnalyze:  analyzeSpec,
	StageAgents:   agentsSpec,
	StageWorkflow: workflowSpec,
	StageUI:       uiSpec,
	StageReview:   reviewSpec,
	StageDeploy:   deploySpec,
}

// DefaultSpec returns the hardcoded output specification for a workflow
// stage. Specifications define the expected output format and behavioral
// constraints. Returns ErrInvalidStage if the stage is not recognized.
func DefaultSpec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
