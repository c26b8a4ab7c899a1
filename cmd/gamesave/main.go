package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/mzki/gamesave"
	"github.com/mzki/gamesave/filesystem"
	"github.com/mzki/gamesave/infra/backup"
	"github.com/mzki/gamesave/infra/buildinfo"
	"github.com/mzki/gamesave/infra/repo"
	"github.com/mzki/gamesave/savefile"
	"github.com/mzki/gamesave/slot"
	"github.com/mzki/gamesave/util/errutil"
	"github.com/mzki/gamesave/util/log"
	"github.com/mzki/gamesave/width"
)

const (
	flagNameConfig   = "config"
	flagNameLogFile  = "logfile"
	flagNameLogLevel = "loglevel"
	flagNameLogLimit = "loglimit"
	flagNameDir      = "dir"
)

const progName = "gamesave"

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// column width of comment in the slot listing.
const commentColumnWidth = savefile.CommentSize

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flagSet := flag.NewFlagSet(progName, flag.ContinueOnError)
	flagSet.SetOutput(stderr)
	if err := parseFlags(flagSet, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cmdArgs := flagSet.Args()
	if len(cmdArgs) == 0 {
		flagSet.Usage()
		return exitUsage
	}
	if cmdArgs[0] == "version" {
		fmt.Fprintln(stdout, buildinfo.Get())
		return exitOK
	}

	configFile := flagSet.Lookup(flagNameConfig).Value.String()
	conf, err := gamesave.LoadConfigOrDefault(configFile)
	switch {
	case errors.Is(err, gamesave.ErrDefaultConfigGenerated):
		fmt.Fprintf(stderr, "Config file (%v) does not exist. Use default config and write it to file.\n", configFile)
	case err != nil:
		fmt.Fprintf(stderr, "config load failed: %v\n", err)
		return exitError
	}
	if err := overwriteConfigByFlag(conf, flagSet); err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	reset, err := gamesave.SetupLogConfig(conf)
	if err != nil {
		fmt.Fprintf(stderr, "log configuration failed: %v\n", err)
		fmt.Fprintf(stderr, "Hint: try to change config logfile from %v\n", conf.LogFile)
		return exitError
	}
	defer reset()

	cmd := &command{
		// relative paths in config are resolved against the working directory at start.
		repo:   repo.NewFileRepository(&filesystem.AbsPathFileSystem{}, conf.RepoConfig),
		stdout: stdout,
	}
	if err := cmd.exec(ctx, cmdArgs[0], cmdArgs[1:]); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", cmdArgs[0], err)
		if errors.Is(err, errUsage) {
			return exitUsage
		}
		return exitError
	}
	return exitOK
}

// parseFlags defines flags on flagSet and parses args.
func parseFlags(flagSet *flag.FlagSet, args []string) error {
	flagSet.Usage = func() { printHelp(flagSet) }

	flagSet.String(flagNameConfig, gamesave.ConfigFile, "`config-file` to load. default config is written if not exist.")
	flagSet.String(flagNameLogFile, "", "`output-file` to write log. { stdout | stderr } is OK.")
	flagSet.String(flagNameLogLevel, "", "`level` = { warn | info | debug }.")
	flagSet.Int64(flagNameLogLimit, 0, "`megabytes` of log output limit.")
	flagSet.String(flagNameDir, "", "`directory` of save slots.")

	return flagSet.Parse(args)
}

// overwriteConfigByFlag overwrites conf by the flags set explicitly on command line.
func overwriteConfigByFlag(conf *gamesave.Config, flagSet *flag.FlagSet) error {
	var err error
	flagSet.Visit(func(f *flag.Flag) {
		v := f.Value.String()
		switch f.Name {
		case flagNameLogFile:
			conf.LogFile = v
		case flagNameLogLevel:
			conf.LogLevel = v
		case flagNameLogLimit:
			limit, perr := strconv.ParseInt(v, 10, 64)
			if perr != nil {
				err = fmt.Errorf("invalid -%s: %w", f.Name, perr)
				return
			}
			conf.LogLimitMegaByte = limit
		case flagNameDir:
			conf.RepoConfig.SaveFileDir = v
		}
	})
	return err
}

func printHelp(flagSet *flag.FlagSet) {
	name := flagSet.Name()
	fmt.Fprintf(flagSet.Output(), `Usage: %s [options] command [arguments...]

  %s manages save slots of the game.

Commands:
  list                          list comments of the saved slots.
  save <slot> <comment> <file>  save content of file into the slot.
  load <slot> <file>            load the slot and write its content into file. "-" is stdout.
  verify [slot...]              validate the slots. all saved slots if none given.
  shot [file]                   print the next screenshot path, or provision directory for file.
  export <zipfile>              archive the valid slots into zip file.
  import <zipfile>              restore the valid slots from zip file.
  version                       show version info and quit.

  any flag values same as '%s' file overwrites the values
  loaded from the file.

`, name, name, gamesave.ConfigFile)
	flagSet.PrintDefaults()
}

var errUsage = errors.New("invalid usage")

type command struct {
	repo   *repo.FileRepository
	stdout io.Writer
}

func (c *command) exec(ctx context.Context, name string, args []string) error {
	switch name {
	case "list":
		return c.list(ctx)
	case "save":
		if len(args) != 3 {
			return fmt.Errorf("%w: save <slot> <comment> <file>", errUsage)
		}
		id, err := parseSlot(args[0])
		if err != nil {
			return err
		}
		return c.save(ctx, id, args[1], args[2])
	case "load":
		if len(args) != 2 {
			return fmt.Errorf("%w: load <slot> <file>", errUsage)
		}
		id, err := parseSlot(args[0])
		if err != nil {
			return err
		}
		return c.load(ctx, id, args[1])
	case "verify":
		ids := make([]int, 0, len(args))
		for _, a := range args {
			id, err := parseSlot(a)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return c.verify(ctx, ids)
	case "shot":
		if len(args) > 1 {
			return fmt.Errorf("%w: shot [file]", errUsage)
		}
		return c.shot(args)
	case "export", "import":
		if len(args) != 1 {
			return fmt.Errorf("%w: %s <zipfile>", errUsage, name)
		}
		if name == "export" {
			return c.exportZip(args[0])
		}
		return c.importZip(args[0])
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, name)
	}
}

func parseSlot(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 0 || id >= slot.Count {
		return 0, fmt.Errorf("%w: slot must be 0 to %d, got %q", errUsage, slot.Count-1, s)
	}
	return id, nil
}

func (c *command) list(ctx context.Context) error {
	list, err := c.repo.LoadCommentList(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(c.stdout, "no saves")
		return nil
	}
	for _, info := range list {
		if info.Err != nil {
			fmt.Fprintf(c.stdout, "%02d  %s  (%v)\n", info.Slot, width.FillRight("", commentColumnWidth), savefile.KindOf(info.Err))
			continue
		}
		label := width.Truncate(info.Comment.String(), commentColumnWidth, "...")
		fmt.Fprintf(c.stdout, "%02d  %s\n", info.Slot, width.FillRight(label, commentColumnWidth))
	}
	return nil
}

func (c *command) save(ctx context.Context, id int, comment, file string) error {
	payload, err := readFile(file)
	if err != nil {
		return err
	}
	if err := c.repo.Save(ctx, id, savefile.NewComment(comment), payload); err != nil {
		return err
	}
	log.Infof("saved %d bytes into slot %02d", len(payload), id)
	return nil
}

func readFile(file string) ([]byte, error) {
	fp, err := filesystem.Load(file)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return io.ReadAll(fp)
}

func (c *command) load(ctx context.Context, id int, file string) (err error) {
	payload, err := c.repo.Load(ctx, id)
	if err != nil {
		return err
	}

	var w io.Writer = c.stdout
	if file != "-" {
		fp, serr := filesystem.Store(file)
		if serr != nil {
			return serr
		}
		defer func() {
			if cerr := fp.Close(); err == nil {
				err = cerr
			}
		}()
		w = fp
	}
	ew := errutil.NewErrWriter(w)
	ew.Write(payload)
	return ew.Err()
}

func (c *command) verify(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		list, err := c.repo.LoadCommentList(ctx)
		if err != nil {
			return err
		}
		for _, info := range list {
			ids = append(ids, info.Slot)
		}
	}

	merr := errutil.NewMultiError()
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		header, err := savefile.Verify(c.repo.FileSystem(), c.repo.Path(id))
		if err != nil {
			fmt.Fprintf(c.stdout, "%02d  NG  %v\n", id, savefile.KindOf(err))
			merr.Add(err)
			continue
		}
		fmt.Fprintf(c.stdout, "%02d  OK  %d bytes, hash %08x\n", id, header.ContentSize, header.ContentHash)
	}
	return merr.Err()
}

func (c *command) shot(args []string) error {
	if len(args) == 1 {
		dir := filesystem.ScreenshotDir(args[0])
		if dir == "" {
			return fmt.Errorf("can not provision directory for %s", args[0])
		}
		fmt.Fprintln(c.stdout, dir)
		return nil
	}
	path := c.repo.NextScreenshotPath()
	if path == "" {
		return errors.New("can not provision screenshot directory")
	}
	fmt.Fprintln(c.stdout, path)
	return nil
}

func (c *command) exportZip(file string) error {
	archived, err := backup.Export(c.repo.FileSystem(), c.repo.Namer(), file)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "exported %d slots %v\n", len(archived), archived)
	return nil
}

func (c *command) importZip(file string) error {
	restored, err := backup.Import(c.repo.FileSystem(), c.repo.Namer(), file)
	c.repo.InvalidateCache()
	fmt.Fprintf(c.stdout, "imported %d slots %v\n", len(restored), restored)
	return err
}
