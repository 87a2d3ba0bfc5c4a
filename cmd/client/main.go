package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"cardparty-client/internal/config"
	"cardparty-client/internal/util"
	"cardparty-client/pkg/channel"
	"cardparty-client/pkg/lobby"
	"cardparty-client/pkg/session"
)

// Version is the client version
var Version = "v0.0.0-dev"

var roomFlag = flag.String("room", "", "room code to join (empty creates a new room)")
var nameFlag = flag.String("name", "", "display name")

func main() {
	flag.Parse()
	setupLogger()

	cfg := config.Instance()

	roomCode := *roomFlag
	if roomCode == "" {
		roomCode = cfg.RoomCode
	}

	playerName := *nameFlag
	if playerName == "" {
		playerName = cfg.PlayerName
	}
	if playerName == "" {
		playerName = util.GetRandomName()
	}

	ctx := context.Background()

	lobbyClient, err := lobby.New(cfg.ServerURL, nil, logrus.StandardLogger())
	if err != nil {
		logrus.WithError(err).Fatal("could not create lobby client")
	}

	var seat *lobby.Room
	if roomCode == "" {
		seat, err = lobbyClient.CreateRoom(ctx, cfg.GameType, playerName)
	} else {
		seat, err = lobbyClient.JoinRoom(ctx, roomCode, playerName)
	}
	if err != nil {
		logrus.WithError(err).Fatal("could not obtain a seat")
	}

	ch, err := channel.Dial(ctx, channel.Options{
		ServerURL: cfg.ServerURL,
		RoomCode:  seat.RoomCode,
		PlayerID:  seat.PlayerID,
		Logger:    logrus.StandardLogger(),
	})
	if err != nil {
		logrus.WithError(err).Fatal("could not connect")
	}
	defer ch.Close()

	sess, err := session.New(session.Config{
		PlayerID: seat.PlayerID,
		RoomCode: seat.RoomCode,
		Adapter:  ch,
		Sender:   ch,
		Logger:   logrus.StandardLogger(),
	})
	if err != nil {
		logrus.WithError(err).Fatal("could not create session")
	}

	sess.Start()
	defer sess.Close()

	go forwardEvents(ch, sess)

	logrus.WithFields(logrus.Fields{
		"version": Version,
		"room":    seat.RoomCode,
		"player":  seat.PlayerID,
	}).Info("connected")
	fmt.Printf("room %s, playing as %s. Type \"help\" for commands.\n", seat.RoomCode, playerName)

	repl(ctx, sess, lobbyClient, seat)
}

func forwardEvents(ch *channel.Channel, sess *session.Session) {
	for event := range ch.Events() {
		switch event.Kind {
		case channel.EventPeerConnected:
			sess.Notify(fmt.Sprintf("%s connected", event.Name))
		case channel.EventPeerDisconnected:
			sess.Notify(fmt.Sprintf("%s disconnected", event.Name))
		case channel.EventError:
			sess.Notify(event.Message)
		}
	}
}

func repl(ctx context.Context, sess *session.Session, lobbyClient *lobby.Client, seat *lobby.Room) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			show(sess)
			continue
		}

		arg := ""
		if len(fields) > 1 {
			arg = fields[1]
		}

		switch fields[0] {
		case "help":
			usage()
		case "start":
			if err := lobbyClient.StartGame(ctx, seat.RoomCode, seat.PlayerID); err != nil {
				fmt.Println(err)
			}
		case "hand":
			showHand(sess, seat.PlayerID)
		case "draw":
			sess.Draw()
		case "play":
			sess.ActivateCard(arg)
		case "target":
			sess.ChooseTarget(arg)
		case "cancel":
			sess.CancelSelection()
		case "pos":
			n, err := strconv.Atoi(arg)
			if err != nil {
				fmt.Println("pos requires a number")
				continue
			}
			sess.ChoosePilePosition(n)
		case "rand":
			sess.ChoosePileRandom()
		case "give":
			sess.SurrenderCard(arg)
		case "ok":
			sess.DismissReveal()
		case "quit":
			return
		default:
			fmt.Printf("unknown command: %s\n", fields[0])
		}
	}
}

func usage() {
	fmt.Println(`commands:
  start            start the game (host only)
  hand             show your hand
  draw             draw a card (ends your turn)
  play <cardID>    activate a card
  target <player>  choose the target for the selected card(s)
  cancel           abandon the current selection
  pos <n>          put the bomb back at position n
  rand             put the bomb back at a random position
  give <cardID>    surrender a card
  ok               dismiss the pile preview
  quit             exit`)
}

func show(sess *session.Session) {
	snap := sess.Snapshot()
	if snap == nil {
		fmt.Println("waiting for the first state push…")
		return
	}

	fmt.Printf("phase=%s turn=%s mode=%s\n", snap.Phase, snap.CurrentTurnPlayerID, sess.Mode())

	if msg := sess.Notification(); msg != "" {
		fmt.Printf("* %s\n", msg)
	}

	if reveal := sess.Reveal(); reveal != nil {
		fmt.Printf("next up: %s\n", strings.Join(reveal, ", "))
	}

	switch prompt := sess.Prompt().(type) {
	case *session.ReinsertPrompt:
		fmt.Printf("put %s back: pos 0..%d (or rand)\n", prompt.CardName, prompt.MaxPosition)
	case *session.SurrenderPrompt:
		fmt.Printf("give a card to %s: give <cardID>\n", prompt.ToPlayer)
	case *session.ReactionPrompt:
		fmt.Printf("%s is pending. play %s to cancel it\n", prompt.ActionName, prompt.Card.ID)
	case *session.WaitingPrompt:
		fmt.Println(prompt.Message)
	}

	if winner := sess.Winner(); winner != nil {
		fmt.Printf("%s wins!\n", winner.Name)
	}
}

func showHand(sess *session.Session, playerID string) {
	snap := sess.Snapshot()
	if snap == nil {
		return
	}

	player := snap.Player(playerID)
	if player == nil {
		return
	}

	for _, card := range player.Hand.Cards {
		fmt.Printf("  %-36s %s\n", card.ID, card)
	}
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
