package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"pwmbox/host/client"
	"pwmbox/host/serial"
	"pwmbox/host/slotfile"
)

var (
	device  = flag.String("device", "", "Serial device path (empty: scan USB serial ports)")
	baud    = flag.Int("baud", 115200, "Baud rate")
	driver  = flag.String("driver", "tarm", "Serial driver: tarm or bugst")
	pace    = flag.Duration("pace", client.DefaultPace, "Pause after each upload command")
	verbose = flag.Bool("verbose", false, "Enable verbose output")
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: pwmbox-host [flags] COMMAND [ARGS]")
	fmt.Fprintln(os.Stderr, "\nCommands:")
	fmt.Fprintln(os.Stderr, "  ports                 - List serial ports and candidates")
	fmt.Fprintln(os.Stderr, "  info                  - Show device identity")
	fmt.Fprintln(os.Stderr, "  password              - Show the password")
	fmt.Fprintln(os.Stderr, "  set-password A B C    - Set the password digits (n unsets)")
	fmt.Fprintln(os.Stderr, "  set-default N         - Set the boot slot (n clears)")
	fmt.Fprintln(os.Stderr, "  export FILE           - Save every slot to a JSON file")
	fmt.Fprintln(os.Stderr, "  import FILE           - Replace the slots with a JSON file")
	fmt.Fprintln(os.Stderr, "\nFlags:")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(flag.Arg(0), flag.Args()[1:], logger.Sugar()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return cfg.Build()
}

func run(cmd string, args []string, log *zap.SugaredLogger) error {
	if cmd == "ports" {
		return listPorts()
	}

	c, err := connect(log)
	if err != nil {
		return err
	}
	defer c.Close()
	c.SetPace(*pace)

	switch cmd {
	case "info":
		return showInfo(c)
	case "password":
		p, err := c.Password()
		if err != nil {
			return err
		}
		fmt.Println(formatPassword(p))
		return nil
	case "set-password":
		if len(args) != 3 {
			return errors.New("set-password needs three digits")
		}
		var p [3]int
		for i := range p {
			if p[i], err = parseDigit(args[i], 9); err != nil {
				return err
			}
		}
		return c.SetPassword(p)
	case "set-default":
		if len(args) != 1 {
			return errors.New("set-default needs a slot number")
		}
		ui, err := parseDigit(args[0], 14)
		if err != nil {
			return err
		}
		return c.SetDefault(ui)
	case "export":
		if len(args) != 1 {
			return errors.New("export needs a file name")
		}
		slots, err := c.Slots()
		if err != nil {
			return err
		}
		if err := slotfile.Save(args[0], slots); err != nil {
			return err
		}
		fmt.Printf("Exported %d slots to %s\n", len(slots), args[0])
		return nil
	case "import":
		if len(args) != 1 {
			return errors.New("import needs a file name")
		}
		slots, err := slotfile.Load(args[0])
		if err != nil {
			return err
		}
		start := time.Now()
		if err := c.UploadSlots(slots); err != nil {
			return err
		}
		fmt.Printf("Imported %d slots in %v\n", len(slots), time.Since(start).Round(time.Millisecond))
		return nil
	}
	return errors.Errorf("unknown command %q", cmd)
}

func connect(log *zap.SugaredLogger) (*client.Client, error) {
	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	cfg.Driver = serial.Driver(*driver)

	if *device != "" {
		fmt.Printf("Connecting to %s...\n", *device)
		return client.Dial(cfg, log)
	}

	fmt.Println("Looking for a PWM box...")
	c, port, err := client.Find(*cfg, log)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Found on %s (%s)\n", port.Name, port.Product)
	return c, nil
}

func listPorts() error {
	ports, err := serial.ListPorts()
	if err != nil {
		return err
	}
	candidates := make(map[string]bool)
	for _, p := range serial.Candidates(ports) {
		candidates[p.Name] = true
	}
	for _, p := range ports {
		mark := " "
		if candidates[p.Name] {
			mark = "*"
		}
		if p.IsUSB {
			fmt.Printf("%s %-20s %s:%s %s\n", mark, p.Name, p.VID, p.PID, p.Product)
		} else {
			fmt.Printf("%s %s\n", mark, p.Name)
		}
	}
	return nil
}

func showInfo(c *client.Client) error {
	info, err := c.Info()
	if err != nil {
		return err
	}
	def := "none"
	if info.DefaultSlot >= 0 {
		def = strconv.Itoa(info.DefaultSlot)
	}
	fmt.Printf("Serial:       %d\n", info.Serial)
	fmt.Printf("Hardware:     %s\n", info.HWVersion)
	fmt.Printf("Software:     %s\n", info.SWVersion)
	fmt.Printf("Default slot: %s\n", def)
	fmt.Printf("Max slots:    %d\n", info.MaxSlots)

	slots, err := c.Slots()
	if err != nil {
		return err
	}
	for i, s := range slots {
		fmt.Printf("\n[%d] %s\n", i, s.Name)
		for j, p := range s.PWMs {
			fmt.Printf("  %d %-19s %-3s %6.1f Hz %3d%% %+3d%%\n",
				j, p.Name, p.Mode, float64(p.Frequency)/10, p.Duty, p.Phase)
		}
	}
	return nil
}

func formatPassword(p [3]int) string {
	if p[0] < 0 {
		return "not set"
	}
	return fmt.Sprintf("%d %d %d", p[0], p[1], p[2])
}

// parseDigit parses 0..max, or "n" for unset
func parseDigit(s string, max int) (int, error) {
	if s == "n" {
		return -1, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 || v > max {
		return 0, errors.Errorf("%q is not n or a number in 0..%d", s, max)
	}
	return v, nil
}
