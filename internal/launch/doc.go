// Package launch implements the multi-stage pipeline that takes an agent
// from source to a hosted, tradeable token: scaffold the code, deploy it
// to the hosting platform, wait for the remote compile, then register a
// token on the launchpad.
//
// The pipeline produces exactly one Outcome per run. Stages never print
// or exit, all failures are classified into the package's error kinds and
// carried on the Outcome for the reporter to render.
package launch
