// Package remote pushes generated lab artifacts to an emulator host over
// SSH.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/newtron-network/leafspine/pkg/util"
)

// DefaultSSHPort is used when a Target has no port.
const DefaultSSHPort = 22

// Target is a lab host reachable over SSH. Files are written under Dir.
// When Sudo is set, files are written through "sudo tee".
type Target struct {
	Host     string
	Port     int
	User     string
	Password string
	KeyFile  string
	Dir      string
	Sudo     bool
}

// Addr returns host:port, applying DefaultSSHPort.
func (t Target) Addr() string {
	port := t.Port
	if port == 0 {
		port = DefaultSSHPort
	}
	return net.JoinHostPort(t.Host, fmt.Sprintf("%d", port))
}

func (t Target) clientConfig(timeout time.Duration) (*ssh.ClientConfig, error) {
	if t.Host == "" {
		return nil, util.NewValidationError("lab host is required")
	}
	if t.User == "" {
		return nil, util.NewValidationError("lab user is required")
	}

	var auth []ssh.AuthMethod
	if t.KeyFile != "" {
		pem, err := os.ReadFile(t.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("reading key file: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(pem)
		if err != nil {
			return nil, fmt.Errorf("parsing key file %s: %w", t.KeyFile, err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if t.Password != "" {
		auth = append(auth, ssh.Password(t.Password))
	}
	if len(auth) == 0 {
		return nil, util.NewValidationError("a password or key file is required")
	}

	return &ssh.ClientConfig{
		User:            t.User,
		Auth:            auth,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         timeout,
	}, nil
}

// dial connects honoring ctx for the TCP and handshake phases.
func dial(ctx context.Context, t Target, timeout time.Duration) (*ssh.Client, error) {
	config, err := t.clientConfig(timeout)
	if err != nil {
		return nil, err
	}
	addr := t.Addr()

	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return nil, err
	}
	conn.SetDeadline(time.Time{})
	return ssh.NewClient(c, chans, reqs), nil
}

// Push uploads files (relative name to content) under target.Dir, in name
// order. Content is streamed to tee over the session's stdin. Returns on
// first error.
func Push(ctx context.Context, target Target, files map[string][]byte) error {
	names, err := sortedNames(files)
	if err != nil {
		return err
	}
	dir := target.Dir
	if dir == "" {
		dir = "."
	}

	client, err := dial(ctx, target, 10*time.Second)
	if err != nil {
		return fmt.Errorf("remote: connect %s: %w", target.Addr(), err)
	}
	defer client.Close()

	run := func(cmd string, stdin []byte) (string, error) {
		sess, err := client.NewSession()
		if err != nil {
			return "", err
		}
		defer sess.Close()
		if stdin != nil {
			sess.Stdin = bytes.NewReader(stdin)
		}
		out, err := sess.CombinedOutput(cmd)
		return strings.TrimSpace(string(out)), err
	}

	log := util.WithOperation("push").WithField("host", target.Host)

	dirs := map[string]bool{dir: true}
	for _, name := range names {
		dirs[path.Dir(path.Join(dir, name))] = true
	}
	dirList := make([]string, 0, len(dirs))
	for d := range dirs {
		dirList = append(dirList, d)
	}
	sort.Strings(dirList)
	if out, err := run(mkdirCommand(dirList, target.Sudo), nil); err != nil {
		return fmt.Errorf("remote: mkdir %s: %w (%s)", dir, err, out)
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		dest := path.Join(dir, name)
		if out, err := run(writeCommand(dest, target.Sudo), files[name]); err != nil {
			return fmt.Errorf("remote: write %s: %w (%s)", dest, err, out)
		}
		log.Debugf("Wrote %s (%d bytes)", dest, len(files[name]))
	}

	log.Infof("Pushed %d files to %s:%s", len(names), target.Host, dir)
	return nil
}

// WaitForSSH polls target every interval until a command runs successfully
// or ctx is done.
func WaitForSSH(ctx context.Context, target Target, interval time.Duration) error {
	if _, err := target.clientConfig(interval); err != nil {
		return err
	}
	for {
		err := probe(ctx, target, interval)
		if err == nil {
			return nil
		}
		util.WithOperation("wait").WithField("host", target.Host).Debugf("SSH not ready: %v", err)

		select {
		case <-ctx.Done():
			return fmt.Errorf("remote: SSH not ready at %s: %w", target.Addr(), ctx.Err())
		case <-time.After(interval):
		}
	}
}

func probe(ctx context.Context, target Target, timeout time.Duration) error {
	if timeout < time.Second {
		timeout = time.Second
	}
	client, err := dial(ctx, target, timeout)
	if err != nil {
		return err
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return err
	}
	defer session.Close()
	_, err = session.CombinedOutput("echo ready")
	return err
}

// sortedNames validates file names and returns them sorted. Names must be
// relative and stay under the target directory.
func sortedNames(files map[string][]byte) ([]string, error) {
	if len(files) == 0 {
		return nil, util.NewValidationError("no files to push")
	}
	v := &util.ValidationBuilder{}
	names := make([]string, 0, len(files))
	for name := range files {
		clean := path.Clean(name)
		switch {
		case name == "" || clean == ".":
			v.AddError("empty file name")
		case path.IsAbs(clean):
			v.AddErrorf("%s: file name must be relative", name)
		case clean == ".." || strings.HasPrefix(clean, "../"):
			v.AddErrorf("%s: file name escapes the target directory", name)
		}
		names = append(names, name)
	}
	if err := v.Build(); err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// shellQuote wraps s in single quotes for a POSIX shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

func mkdirCommand(dirs []string, sudo bool) string {
	quoted := make([]string, len(dirs))
	for i, d := range dirs {
		quoted[i] = shellQuote(d)
	}
	cmd := "mkdir -p " + strings.Join(quoted, " ")
	if sudo {
		cmd = "sudo " + cmd
	}
	return cmd
}

func writeCommand(dest string, sudo bool) string {
	tee := "tee"
	if sudo {
		tee = "sudo tee"
	}
	return fmt.Sprintf("%s %s > /dev/null", tee, shellQuote(dest))
}
