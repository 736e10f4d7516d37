// Package ssl drives certbot running as a docker compose service.
//
// Issuance uses the HTTP-01 webroot method: nginx serves
// /.well-known/acme-challenge/ from a volume that the certbot container
// writes its tokens into. The certificates land in the shared conf volume,
// which the webserver mounts read-only at /etc/nginx/ssl:
//
//	/etc/nginx/ssl/live/{domain}/fullchain.pem
//	/etc/nginx/ssl/live/{domain}/privkey.pem
//
// The certbot invocation is always non-interactive and accepts the
// issuer's terms:
//
//	certonly --webroot --webroot-path /var/www/certbot/ [--dry-run] \
//	    -d example.com --non-interactive --agree-tos -m certbot@example.com
//
// Certbot talks to compose through the Runner interface so tests can
// record invocations without docker.
package ssl
