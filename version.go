package accord

// Version is the release version stamped into the CLI.
var Version = "0.1.0"
