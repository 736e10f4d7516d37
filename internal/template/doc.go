// Package template renders the files certboot writes into the work dir.
//
// Three templates are embedded in the binary:
//
//	compose/docker-compose.yml.tmpl  webserver + certbot services
//	nginx/pre-issuance.conf.tmpl     HTTP only: ACME challenge, redirect the rest
//	nginx/post-issuance.conf.tmpl    HTTPS with the issued certificate
//
// Rendering is a pure function of the configuration: the same input always
// produces byte-identical output, so rerunning certboot rewrites the same
// files.
//
// The manifest receives nginx_image and volume_prefix only. The
// pre-issuance config is domain-agnostic and redirects with $host. The
// post-issuance config uses the domain in exactly three places: the
// certificate path, the key path and the $host match that rejects other
// virtual hosts with 444.
//
//	out, err := template.RenderNginx(template.StagePost, cfg)
package template
