package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/larrysaam/scholar-connect-sub004/internal/config"
	"github.com/larrysaam/scholar-connect-sub004/internal/storage"
)

func main() {
	cfg := config.Load()
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	store := storage.NewService(db, nil) // No redis needed for admin CLI
	ctx := context.Background()

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("Commands: archive <conversation_id> | cursor <conversation_id> <user_id> | conversations <user_id> | tail <conversation_id> [after_seq]")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "archive":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin archive <conversation_id>")
			os.Exit(1)
		}
		if err := store.ArchiveConversation(ctx, os.Args[2]); err != nil {
			log.Fatalf("Error archiving conversation: %v", err)
		}
		fmt.Printf("Conversation %s archived.\n", os.Args[2])

	case "cursor":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin cursor <conversation_id> <user_id>")
			os.Exit(1)
		}
		seq, err := store.GetReadCursor(ctx, os.Args[2], os.Args[3])
		if err != nil {
			log.Fatalf("Error reading cursor: %v", err)
		}
		fmt.Printf("User %s has read conversation %s up to sequence %d.\n", os.Args[3], os.Args[2], seq)

	case "conversations":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin conversations <user_id>")
			os.Exit(1)
		}
		convs, err := store.ListConversationsForUser(ctx, os.Args[2])
		if err != nil {
			log.Fatalf("Error listing conversations: %v", err)
		}
		for _, conv := range convs {
			fmt.Printf("%s  (%s, %s)  seq=%d  last=%q at %s\n",
				conv.ID, conv.UserLowID, conv.UserHighID, conv.LastSequence,
				conv.LastMessagePreview, conv.LastMessageAt.Format("2006-01-02 15:04:05"))
		}

	case "tail":
		if len(os.Args) < 3 {
			fmt.Println("Usage: admin tail <conversation_id> [after_seq]")
			os.Exit(1)
		}
		var after int64
		if len(os.Args) > 3 {
			after, err = strconv.ParseInt(os.Args[3], 10, 64)
			if err != nil {
				fmt.Println("Invalid sequence. Please provide an integer.")
				os.Exit(1)
			}
		}
		msgs, err := store.ListMessagesSince(ctx, os.Args[2], after, 50)
		if err != nil {
			log.Fatalf("Error listing messages: %v", err)
		}
		for _, m := range msgs {
			fmt.Printf("#%d [%s] %s: %s\n", m.Seq, m.Status, m.SenderID, m.Body)
		}

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}
