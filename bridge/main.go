// Bridge: a bidirectional synchronization tool between a distributed VCS
// and a pessimistic-locking CVCS. CLI entry point and subcommand dispatch,
// in the style of tool/repotool.go's flag.NewFlagSet plus manual operation
// dispatch rather than a cobra command tree.

package main

import (
	"flag"
	"fmt"
	"net/smtp"
	"os"
)

var (
	configPath string
	quiet      bool
	verbose    bool
)

func croak(msg string, args ...interface{}) {
	content := fmt.Sprintf(msg, args...)
	logit(logSHOUT, "%s", content)
	os.Stderr.WriteString("bridge: " + content + "\n")
	os.Exit(1)
}

func announce(msg string, args ...interface{}) {
	if !quiet {
		content := fmt.Sprintf(msg, args...)
		os.Stdout.WriteString("bridge: " + content + "\n")
	}
}

func complain(msg string, args ...interface{}) {
	if !quiet {
		content := fmt.Sprintf(msg, args...)
		os.Stderr.WriteString("bridge: " + content + "\n")
	}
}

var helpdict = map[string]string{
	"togit":  "pull pending Clearcase history into Git (ingest)",
	"tocc":   "check in pending Git commits to Clearcase (egress)",
	"update": "update the Clearcase view if new history is waiting",
	"align":  "reconcile Git against Clearcase, committing any drift found",
	"init":   "bootstrap a new bridge from a Clearcase snapshot as of DATE",
	"clone":  "alias for init",
}

func main() {
	flags := flag.NewFlagSet("bridge", flag.ExitOnError)
	flags.StringVar(&configPath, "c", "", "path to the bridge configuration file")
	flags.BoolVar(&quiet, "q", false, "run as quietly as possible")
	flags.BoolVar(&verbose, "v", false, "show subcommands and diagnostics")
	dryRun := flags.Bool("dry-run", false, "for align, report discrepancies without committing")

	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "bridge: requires a subcommand - do 'bridge help' for a list.\n")
		os.Exit(1)
	}
	operation := os.Args[1]
	flags.Parse(os.Args[2:])
	args := flags.Args()

	if operation == "help" {
		printHelp(flags)
		return
	}
	if operation == "version" {
		fmt.Println("bridge 1.0")
		return
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		croak("%v", err)
	}
	configureLogging(cfg.LogFile, defaultLogMask)

	lock := newInvocationLock(cfg.GitRoot)
	if err := lock.Acquire(); err != nil {
		croak("%v", err)
	}
	defer lock.Release()

	identities := identityLookup{}
	engine := NewEngine(cfg, identities)

	if err := dispatch(engine, operation, args, *dryRun); err != nil {
		complain("%v", err)
		alertOnFailure(cfg, operation, err)
		os.Exit(1)
	}
}

func dispatch(engine *Engine, operation string, args []string, dryRun bool) error {
	switch operation {
	case "togit":
		return engine.OnNewClearcaseChanges()
	case "tocc":
		return engine.OnDoCheckinToClearcase()
	case "update":
		needed, err := engine.cc.needUpdate()
		if err != nil {
			return err
		}
		if !needed {
			announce("Clearcase view is already up to date")
			return nil
		}
		announce("updating Clearcase view")
		return engine.cc.update()
	case "align":
		addedInCC, addedInGit, err := engine.SyncReport()
		if err != nil {
			return err
		}
		if len(addedInCC) == 0 && len(addedInGit) == 0 {
			announce("no discrepancies found")
			return nil
		}
		announce("discrepancies: %d added in Clearcase, %d added in Git", len(addedInCC), len(addedInGit))
		if dryRun {
			fmt.Print(engine.RenderSyncReport(addedInCC, addedInGit))
			return nil
		}
		_, err = engine.addDiscoveredChanges()
		return err
	case "init", "clone":
		if len(args) != 1 {
			return fmt.Errorf("%s requires a single DATE argument (DD-Mon-YYYY)", operation)
		}
		return engine.NewBridge(args[0])
	default:
		return fmt.Errorf("unknown operation %q", operation)
	}
}

func printHelp(flags *flag.FlagSet) {
	os.Stdout.WriteString("bridge: synchronize a Clearcase view with a Git repository\n\ncommands:\n")
	for _, name := range []string{"togit", "tocc", "update", "align", "init", "clone", "help", "version"} {
		fmt.Fprintf(os.Stdout, "  %-8s %s\n", name, helpdict[name])
	}
	os.Stdout.WriteString("\noptions:\n")
	flags.PrintDefaults()
}

// alertOnFailure emails the configured recipients when a subcommand fails,
// reproducing bridgerunner.py's SMTPHandler-backed top-level error
// reporting. net/smtp is the one ambient concern built directly on the
// standard library — see DESIGN.md.
func alertOnFailure(cfg *Config, operation string, cause error) {
	if cfg.EmailSMTP == "" || len(cfg.EmailRecipients) == 0 {
		return
	}
	subject := fmt.Sprintf("bridge: %s failed", operation)
	body := fmt.Sprintf("Subject: %s\r\n\r\n%s\r\n", subject, cause.Error())
	if err := smtp.SendMail(cfg.EmailSMTP, nil, cfg.EmailSender, cfg.EmailRecipients, []byte(body)); err != nil {
		complain("failed to send failure alert: %v", err)
	}
}
