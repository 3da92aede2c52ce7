package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli"

	"github.com/ff7tools/terraform/driver"
)

func init() {
	log.SetFlags(0)
}

// info prints an informational progress line per spec §7's "[*] " prefix.
func info(format string, args ...interface{}) {
	fmt.Printf("[*] "+format+"\n", args...)
}

func main() {
	app := cli.NewApp()
	app.Name = "terraform"
	app.Usage = "world-map script compiler/disassembler"
	app.Action = func(c *cli.Context) error {
		cli.ShowAppHelp(c)
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:      "extract",
			Usage:     "disassemble a script archive into a source tree",
			ArgsUsage: "<archive> <outdir>",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "verbose, v",
					Usage: "comment each instruction with its raw hex words",
				},
			},
			Action: func(c *cli.Context) error {
				args := c.Args()
				if len(args) < 2 {
					return cli.NewExitError("usage: terraform extract <archive> <outdir>", 1)
				}
				info("extracting %s", args.Get(0))
				if err := driver.Extract(args.Get(0), args.Get(1), c.Bool("verbose")); err != nil {
					return cli.NewExitError(fmt.Sprintf("[!] ERROR: %v", err), 1)
				}
				info("wrote %s", args.Get(1))
				return nil
			},
		},
		{
			Name:      "compile",
			Usage:     "assemble a source tree back into a script archive",
			ArgsUsage: "<input_dir> <archive>",
			Action: func(c *cli.Context) error {
				args := c.Args()
				if len(args) < 2 {
					return cli.NewExitError("usage: terraform compile <input_dir> <archive>", 1)
				}
				info("compiling %s", args.Get(0))
				if err := driver.Compile(args.Get(0), args.Get(1)); err != nil {
					return cli.NewExitError(fmt.Sprintf("[!] ERROR: %v", err), 1)
				}
				info("wrote %s", args.Get(1))
				return nil
			},
		},
	}

	app.Run(os.Args)
}
