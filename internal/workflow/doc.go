// Package workflow sequences the certificate bootstrap.
//
// A Sequencer runs a fixed, linear list of steps. It loads certbot.json,
// runs docker compose down when docker-compose.yml already exists, writes
// docker-compose.yml and the pre-issuance nginx.conf, and starts the
// containers. certbot then requests the certificate through the webroot
// challenge (optionally as a dry run), the containers are stopped, the
// post-issuance nginx.conf is written and the containers start again.
// Finally it prints guidance, offers to delete the setup files and prints
// the renewal hint.
//
// Loading the configuration and writing files are the only steps that stop
// the run. A docker or certbot failure is logged and the next step runs
// anyway; rerunning certboot is the recovery path.
package workflow
