// Command agentscout runs the agent discovery engine: an HTTP API for
// task-to-agent matching plus a one-shot CLI mode for local queries.
package main
