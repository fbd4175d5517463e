package errorlog

import "testing"

func TestPathSanitizer_Sanitize(t *testing.T) {
	s := NewPathSanitizer(Roots{
		ABSPath:     "/var/www/html/",
		ContentDir:  "/var/www/html/wp-content",
		PluginDir:   "/var/www/html/wp-content/plugins",
		MUPluginDir: "/var/www/html/wp-content/mu-plugins",
	})

	tests := []struct {
		in   string
		want string
	}{
		{"/var/www/html/wp-content/plugins/foo/bar.php", "/wp-content/plugins/foo/bar.php"},
		{"/var/www/html/wp-content/mu-plugins/loader.php", "/wp-content/mu-plugins/loader.php"},
		{"/var/www/html/wp-content/themes/x/functions.php", "/wp-content/themes/x/functions.php"},
		{"/var/www/html/wp-includes/load.php", "/wp-includes/load.php"},
		{"/var/www/html/index.php", "/index.php"},
		{"/var/www/html/vendor/guzzle/src/Client.php", ".../Client.php"},
		{"/home/user/sites/other/vendor/autoload.php", ".../other/vendor/autoload.php"},
		{"/opt/app/x.php", "..."},
		{"/tmp/x.php", "/tmp/x.php"},
		{"relative/path.php", "relative/path.php"},
		{NoFile, NoFile},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := s.Sanitize(tt.in); got != tt.want {
				t.Fatalf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPathSanitizer_Idempotent(t *testing.T) {
	s := NewPathSanitizer(Roots{ABSPath: "/var/www/html", ContentDir: "/var/www/html/wp-content"})
	for _, in := range []string{
		"/var/www/html/wp-content/plugins/foo/bar.php",
		"/var/www/html/wp-admin/includes/file.php",
		"/var/www/html/vendor/guzzle/src/Client.php",
		"/var/www/html/index.php",
		"/srv/a/b/c/d.php",
		"/usr/share/php/x.php",
	} {
		once := s.Sanitize(in)
		twice := s.Sanitize(once)
		if once != twice {
			t.Fatalf("Sanitize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestPathSanitizer_NoRoots(t *testing.T) {
	var s *PathSanitizer
	if got := s.Sanitize("/var/www/html/wp-content/x.php"); got != ".../wp-content/x.php" {
		t.Fatalf("nil Sanitize = %q", got)
	}
}
