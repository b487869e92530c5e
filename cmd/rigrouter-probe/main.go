package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"rigrouter/midi"
	"rigrouter/router"
)

const keylabPattern = "KeyLab"

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	t, err := midi.NewTransport()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer t.Close()

	switch os.Args[1] {
	case "list":
		listPorts(t)
	case "detect":
		detectKeyLab(t)
	case "display":
		testDisplay(t, os.Args[2:])
	case "setup":
		sendSetup(t)
	case "monitor":
		monitor(t)
	case "poll":
		pollDevices(t)
	default:
		usage()
	}
}

func usage() {
	fmt.Println("rigrouter MIDI probe")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                  - List all MIDI ports")
	fmt.Println("  detect                - Find the KeyLab and the input the router would pick")
	fmt.Println("  display [line1 line2] - Write two lines to the KeyLab display")
	fmt.Println("  setup                 - Send the KeyLab control setup")
	fmt.Println("  monitor               - Print everything the controller sends")
	fmt.Println("  poll                  - Poll for device changes")
}

func listPorts(t *midi.Transport) {
	fmt.Println("(waiting up to 3 seconds...)")
	ins, outs, err := t.Ports()
	if err != nil {
		fmt.Printf("\n%v\n", err)
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return
	}
	fmt.Println("=== MIDI Input Ports ===")
	for i, p := range ins {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, p := range outs {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
}

func detectKeyLab(t *midi.Transport) {
	fmt.Println("Looking for KeyLab...")

	in, loopback, err := t.FindIn(keylabPattern, "Internal MIDI")
	if err != nil {
		fmt.Printf("No input: %v\n", err)
	} else {
		fmt.Printf("Router input: %s (loopback=%v)\n", in.String(), loopback)
	}

	out, err := t.FindOut(keylabPattern)
	if err != nil {
		fmt.Println("\nKeyLab display not found")
		return
	}
	fmt.Printf("Display output: %s\n", out.String())
}

func openKeyLab(t *midi.Transport) *midi.KeyLab {
	out, err := t.FindOut(keylabPattern)
	if err != nil {
		fmt.Println("No KeyLab found")
		return nil
	}
	fmt.Printf("Using output: %s\n", out.String())
	k, err := midi.NewKeyLab(out)
	if err != nil {
		fmt.Printf("Error opening port: %v\n", err)
		return nil
	}
	return k
}

func testDisplay(t *midi.Transport, args []string) {
	k := openKeyLab(t)
	if k == nil {
		return
	}
	line1, line2 := "rigrouter", time.Now().Format("15:04:05")
	if len(args) > 0 {
		line1 = args[0]
	}
	if len(args) > 1 {
		line2 = args[1]
	}
	line1, line2 = router.FitLines(line1, line2)
	fmt.Printf("Sending: %q / %q\n", line1, line2)
	if err := k.Print(line1, line2); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("Done!")
}

func sendSetup(t *midi.Transport) {
	k := openKeyLab(t)
	if k == nil {
		return
	}
	fmt.Printf("Sending %d setup messages...\n", midi.SetupMessageCount)
	if err := k.Setup(); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("Done! Rewind, forward and stop now send CC 111, 116 and 117")
}

func monitor(t *midi.Transport) {
	in, _, err := t.FindIn(keylabPattern, "Internal MIDI")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Listening on %s. Ctrl+C to exit.\n", in.String())

	stop, err := midi.Listen(in, func(msg []byte) {
		ts := time.Now().Format("15:04:05.000")
		if ev, ok := midi.ParseEvent(msg); ok {
			fmt.Printf("[%s] %s\n", ts, ev)
			return
		}
		fmt.Printf("[%s] % X\n", ts, msg)
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
}

func pollDevices(t *midi.Transport) {
	fmt.Println("Polling for device changes every 2 seconds...")
	fmt.Println("Connect/disconnect the KeyLab to test. Ctrl+C to exit.")

	lastIn := ""
	lastOut := ""

	for {
		ins, outs, err := t.Ports()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			time.Sleep(2 * time.Second)
			continue
		}

		var inNames, outNames []string
		for _, p := range ins {
			inNames = append(inNames, p.String())
		}
		for _, p := range outs {
			outNames = append(outNames, p.String())
		}

		currentIn := strings.Join(inNames, ",")
		currentOut := strings.Join(outNames, ",")

		if currentIn != lastIn || currentOut != lastOut {
			fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
			fmt.Printf("  Inputs: %v\n", inNames)
			fmt.Printf("  Outputs: %v\n", outNames)

			for _, name := range inNames {
				if strings.Contains(name, keylabPattern) {
					fmt.Println("  -> KeyLab detected!")
				}
			}

			lastIn = currentIn
			lastOut = currentOut
		}

		time.Sleep(2 * time.Second)
	}
}
