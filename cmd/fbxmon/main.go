// Package main provides the entry point for the fbxmon CLI.
//
// fbxmon is a Munin-style metrics agent for the Freebox ADSL router.
// It logs in to the router's web interface, scrapes one metric family
// per invocation, and prints plugin-protocol lines on stdout.
//
// Usage:
//
//	fbxmon <status|uptime|temp|fan|atm|attenuation|snr> [config]
//	fbxmon report
//
// See --help for all available options.
package main

// main is the entry point for fbxmon.
func main() {
	Execute()
}
