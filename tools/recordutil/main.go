package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"cavern-combat/internal/domain"
	"cavern-combat/internal/infrastructure/storage"
)

func main() {
	if len(os.Args) < 3 {
		printHelp()
		return
	}

	store := &storage.RecordStore{}
	rec, err := store.Load(os.Args[2])
	if err != nil {
		fmt.Printf("Invalid record: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "info":
		printInfo(rec)
	case "layout":
		fmt.Println(rec.Layout)
	case "round":
		if len(os.Args) < 4 {
			fmt.Println("Usage: recordutil round <file> <round>")
			return
		}
		round, err := strconv.Atoi(os.Args[3])
		if err != nil {
			fmt.Printf("Invalid round: %v\n", err)
			return
		}
		printRound(rec, round)
	default:
		printHelp()
	}
}

func printInfo(rec *domain.BattleRecord) {
	rounds, kills := 0, 0
	for _, t := range rec.Turns {
		rounds = max(rounds, t.Round)
		if t.Killed {
			kills++
		}
	}

	fmt.Printf("Recorded:     %s\n", time.Unix(rec.Timestamp, 0).Format(time.RFC3339))
	fmt.Printf("Hit points:   %d\n", rec.HitPoints)
	fmt.Printf("Elf power:    %d\n", rec.ElfPower)
	fmt.Printf("Goblin power: %d\n", rec.GoblinPower)
	fmt.Printf("Turns:        %d in %d rounds, %d kills\n", len(rec.Turns), rounds, kills)
}

func printRound(rec *domain.BattleRecord, round int) {
	for _, t := range rec.Turns {
		if t.Round != round {
			continue
		}
		line := fmt.Sprintf("unit %d %v", t.Unit, t.From)
		if t.To != t.From {
			line += fmt.Sprintf(" -> %v", t.To)
		}
		if t.Target >= 0 {
			line += fmt.Sprintf(", hits unit %d for %d", t.Target, t.Damage)
			if t.Killed {
				line += " (killed)"
			}
		}
		fmt.Println(line)
	}
}

func printHelp() {
	fmt.Println(`Record Utility - просмотр записей боев (.ccbr)
Commands:
  info <file>            - параметры боя и сводка по ходам
  layout <file>          - стартовая раскладка
  round <file> <round>   - ходы юнитов в указанном раунде`)
}
