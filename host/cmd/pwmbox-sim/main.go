// pwmbox-sim runs the PWM box firmware on the desktop with a file-backed
// EEPROM, a text display and a console standing in for the encoder.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"pwmbox/config"
	"pwmbox/core"
	"pwmbox/firmware"
	"pwmbox/host/serial"
	"pwmbox/menu"
	"pwmbox/pwm"
	"pwmbox/store"
)

var (
	eeprom     = flag.String("eeprom", "pwmbox.eeprom", "EEPROM image file")
	configFile = flag.String("config", "", "Device configuration JSON (empty: defaults)")
	serialDev  = flag.String("serial", "", "Serial device to serve the protocol on (empty: console only)")
	batch      = flag.Int("batch", 0, "Engine ticks per millisecond (0: tick rate / 1000)")
	verbose    = flag.Bool("verbose", false, "Enable firmware debug output")
)

// wallTime is a TimeSource counting from process start
type wallTime struct {
	start time.Time
}

func (w wallTime) Millis() uint32 {
	return uint32(time.Since(w.start).Milliseconds())
}

// replyPrinter shows protocol replies on the terminal
type replyPrinter struct {
	out io.Writer
}

func (r replyPrinter) Write(p []byte) (int, error) {
	fmt.Fprintf(r.out, "< %s", p)
	return len(p), nil
}

func main() {
	flag.Parse()

	zcfg := zap.NewDevelopmentConfig()
	if !*verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	if err := run(log); err != nil {
		log.Errorw("simulator stopped", "error", err)
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg, err := config.LoadFile(*configFile)
	if err != nil {
		return err
	}

	file, err := store.OpenFile(*eeprom)
	if err != nil {
		return err
	}
	defer file.Close()

	ticks := *batch
	if ticks <= 0 {
		ticks = int(cfg.Timing.TickRate / 1000)
	}

	var replies io.Writer = replyPrinter{out: os.Stdout}
	var port serial.Port
	if *serialDev != "" {
		scfg := serial.DefaultConfig(*serialDev)
		scfg.Baud = cfg.Serial.Baud
		scfg.ReadTimeout = 100
		if port, err = serial.Open(scfg); err != nil {
			return err
		}
		defer port.Close()
		replies = port
	}

	debug := core.NewLogger("pwmbox", func(s string) { log.Debug(s) })
	debug.SetEnabled(*verbose)

	gpio := core.NewMemoryGPIO()
	lcd := menu.NewTextDisplay()
	sys, err := firmware.New(firmware.Options{
		Config:  cfg,
		Output:  gpio,
		Backend: file,
		Display: lcd,
		Serial:  replies,
		Time:    wallTime{start: time.Now()},
		NewClock: func(e *pwm.Engine) pwm.Clock {
			return pwm.NewSoftClock(e, time.Millisecond, ticks)
		},
		Log: debug,
	})
	if err != nil {
		return err
	}
	sys.Start()
	defer sys.Clock().Stop()
	log.Infow("simulator running", "eeprom", *eeprom, "ticks_per_ms", ticks)

	if port != nil {
		go readSerial(port, sys, log)
	}

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	con := &console{sys: sys, lcd: lcd, gpio: gpio, out: os.Stdout}
	con.help()
	fmt.Print(lcd)

	for {
		select {
		case line, ok := <-lines:
			if !ok || !con.run(line) {
				return nil
			}
		case <-interrupt:
			return nil
		default:
		}
		con.tick()
		sys.Poll()
		time.Sleep(time.Millisecond)
	}
}

// readSerial feeds received bytes to the firmware like the UART interrupt
func readSerial(port serial.Port, sys *firmware.System, log *zap.SugaredLogger) {
	buf := make([]byte, 64)
	for {
		n, err := port.Read(buf)
		if err != nil && err != io.EOF {
			log.Errorw("serial read", "error", err)
			return
		}
		for _, b := range buf[:n] {
			core.Critical(func() { sys.OnSerialByte(b) })
		}
	}
}
