package ssl

// Paths shared by the webserver and certbot containers
const (
	// ChallengePath is the location nginx serves HTTP-01 tokens from
	ChallengePath = "/.well-known/acme-challenge/"
	// Webroot is where both containers mount the challenge volume
	Webroot = "/var/www/certbot"
	// LiveDir is the certbot live directory as mounted in the webserver
	LiveDir = "/etc/nginx/ssl/live"
	// Service is the compose service name of the certbot container
	Service = "certbot"
)

// Cert holds the certificate paths for a domain as nginx sees them
type Cert struct {
	Domain   string
	CertPath string
	KeyPath  string
}

// Runner runs a one-off command in a compose service
type Runner interface {
	Run(service string, args ...string) error
}

// GetCertPaths returns the certificate paths for a domain.
// The domain is inserted as written, without path cleaning.
func GetCertPaths(domain string) *Cert {
	dir := LiveDir + "/" + domain + "/"
	return &Cert{
		Domain:   domain,
		CertPath: dir + "fullchain.pem",
		KeyPath:  dir + "privkey.pem",
	}
}

// CertonlyArgs builds the certbot arguments for a webroot issuance.
// --dry-run is only present when dryRun is set.
func CertonlyArgs(domain, email string, dryRun bool) []string {
	args := []string{
		"certonly",
		"--webroot",
		"--webroot-path", Webroot + "/",
	}
	if dryRun {
		args = append(args, "--dry-run")
	}
	return append(args,
		"-d", domain,
		"--non-interactive",
		"--agree-tos",
		"-m", email,
	)
}

// RenewArgs builds the certbot arguments for renewing every managed certificate
func RenewArgs(dryRun bool) []string {
	args := []string{"renew"}
	if dryRun {
		args = append(args, "--dry-run")
	}
	return args
}

// Certbot issues and renews certificates through the certbot compose service
type Certbot struct {
	runner Runner
}

// NewCertbot creates a Certbot that runs through runner
func NewCertbot(runner Runner) *Certbot {
	return &Certbot{runner: runner}
}

// Issue obtains a certificate for domain via the running challenge endpoint.
// The returned paths are valid only once certbot has succeeded.
func (c *Certbot) Issue(domain, email string, dryRun bool) (*Cert, error) {
	if err := c.runner.Run(Service, CertonlyArgs(domain, email, dryRun)...); err != nil {
		return nil, err
	}
	return GetCertPaths(domain), nil
}

// Renew renews every certificate certbot manages
func (c *Certbot) Renew(dryRun bool) error {
	return c.runner.Run(Service, RenewArgs(dryRun)...)
}
