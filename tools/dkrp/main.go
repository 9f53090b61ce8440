package main

import (
	"fmt"
	"os"
	"time"

	"dungeon-kernel/internal/infrastructure/storage"
	"dungeon-kernel/internal/version"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	switch os.Args[1] {
	// Краткая сводка по файлу реплея
	case "info":
		if len(os.Args) < 3 {
			fmt.Println("Usage: dkrp info <file.dkrp>")
			return
		}
		s, err := storage.LoadFile(os.Args[2])
		if err != nil {
			fmt.Printf("Cannot read replay: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("seed      %d\n", s.Seed)
		fmt.Printf("recorded  %s\n", time.Unix(s.Timestamp, 0).Format(time.RFC3339))
		fmt.Printf("map       %dx%d\n", s.Width, s.Height)
		fmt.Printf("commands  %d\n", len(s.Commands))
	// Все записанные команды по шагам
	case "dump":
		if len(os.Args) < 3 {
			fmt.Println("Usage: dkrp dump <file.dkrp>")
			return
		}
		s, err := storage.LoadFile(os.Args[2])
		if err != nil {
			fmt.Printf("Cannot read replay: %v\n", err)
			os.Exit(1)
		}
		for _, rc := range s.Commands {
			c := rc.Command
			fmt.Printf("%6d  %-12s dx=%d dy=%d slot=%d target=%d,%d\n",
				rc.Step, c.Kind, c.Dx, c.Dy, c.Slot, c.Target.X, c.Target.Y)
		}
	// Номер сборки для даты (по умолчанию сегодня)
	case "buildid":
		date := time.Now().UTC().Format("2006-01-02")
		if len(os.Args) >= 3 {
			date = os.Args[2]
		}
		id, err := version.BuildIDFor(date)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Println(id)
	default:
		printHelp()
	}
}

func printHelp() {
	fmt.Println(`dkrp - replay and build utilities
Commands:
  info <file>        - seed, map size and command count of a replay
  dump <file>        - every recorded command with its step
  buildid [date]     - build ID for a YYYY-MM-DD date (today by default)`)
}
