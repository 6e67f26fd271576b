// Package countdown solves the Countdown numbers game as a constrained
// optimization problem.
//
// Version: 0.3.0
//
// A Problem (six numbers and a target) is encoded by a Model as per-step
// constraints over an Assignment. A Solver searches the feasible region
// depth-first with branch and bound, minimizing the distance to the target and
// then the number of steps among exact hits. The resilient variant scores each
// candidate by the worst distance an adversary can force by replacing the last
// operand with any value in 1..10.
package countdown

// Version represents the current version of the countdown engine.
const Version = "0.3.0"

// VersionInfo provides detailed version information.
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// GetVersionInfo returns detailed version information.
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:   Version,
		GoVersion: "1.25+",
	}
}
