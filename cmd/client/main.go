package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"board-client/internal/api"
	"board-client/internal/chatroom"
	"board-client/internal/config"
	"board-client/internal/models"
	"board-client/internal/session"
	"board-client/internal/share"
	"board-client/internal/store"
	"board-client/internal/transport"
	"board-client/pkg/logger"
)

type app struct {
	cfg      *config.Config
	store    *store.BoltStore
	sessions *session.Manager
	client   *api.Client
	broker   *share.Broker
}

func main() {
	cfg := config.Load()

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		logger.Fatal("Failed to open state store: %v", err)
	}
	defer st.Close()

	sessions, err := session.NewManager(st, cfg.API.BaseURL)
	if err != nil {
		logger.Fatal("Failed to initialize session: %v", err)
	}

	a := &app{
		cfg:      cfg,
		store:    st,
		sessions: sessions,
		client:   api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, sessions),
		broker:   share.NewBroker(st, cfg.Chat.ShareDedupWindow, cfg.API.WebBaseURL),
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	switch os.Args[1] {
	case "login":
		err = a.login(ctx, os.Args[2:])
	case "logout":
		err = a.logout()
	case "me":
		err = a.me(ctx)
	case "rooms":
		err = a.rooms(ctx)
	case "chat":
		err = a.chat(ctx, os.Args[2:])
	case "share":
		err = a.share(ctx, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Fatal("%v", err)
	}
}

func printUsage() {
	fmt.Println("Usage: client <command>")
	fmt.Println("  login <email>            log in (password read from stdin)")
	fmt.Println("  logout                   clear the local session")
	fmt.Println("  me                       show the logged-in profile")
	fmt.Println("  rooms                    list chat rooms you participate in")
	fmt.Println("  chat <communityId>       enter a community's chat room")
	fmt.Println("  share <postId> <communityId>  share a post into a room")
}

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: client login <email>")
	}

	fmt.Print("Password: ")
	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	sess, err := a.client.Login(ctx, args[0], strings.TrimSpace(password))
	if err != nil {
		return err
	}
	if err := a.sessions.Establish(sess); err != nil {
		return err
	}
	fmt.Printf("Logged in as %s <%s>\n", sess.User.Name, sess.User.Email)
	return nil
}

func (a *app) logout() error {
	if err := a.sessions.Clear(); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func (a *app) me(ctx context.Context) error {
	user, err := a.client.Me(ctx)
	if err != nil {
		if errors.Is(err, api.ErrNoToken) {
			return fmt.Errorf("not logged in")
		}
		return err
	}
	if err := a.sessions.Update(user); err != nil {
		return err
	}
	fmt.Printf("%s <%s>\n", user.Name, user.Email)
	if user.CommunityName != "" {
		fmt.Printf("Community: %s\n", user.CommunityName)
	}
	return nil
}

func (a *app) rooms(ctx context.Context) error {
	rooms, err := a.client.MyChats(ctx)
	if err != nil {
		if errors.Is(err, api.ErrNoToken) {
			return fmt.Errorf("not logged in")
		}
		return err
	}
	if len(rooms) == 0 {
		fmt.Println("No chat rooms joined yet")
		return nil
	}
	for _, room := range rooms {
		fmt.Printf("%3d  %s\n", room.CommunityID, room.RoomName)
	}
	return nil
}

func (a *app) share(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: client share <postId> <communityId>")
	}
	postID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid post id %q", args[0])
	}
	communityID, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid community id %q", args[1])
	}

	post, err := a.client.Post(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to load post %d: %w", postID, err)
	}

	a.broker.Request(models.ShareRequest{
		PostID:      post.ID,
		PostTitle:   post.Title,
		CommunityID: communityID,
	})
	fmt.Printf("Share queued for room %d; it is sent next time that room connects\n", communityID)
	return nil
}

func (a *app) chat(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: client chat <communityId>")
	}
	communityID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid community id %q", args[0])
	}

	name := fmt.Sprintf("community %d", communityID)
	if community, ok := models.CommunityByID(communityID); ok {
		name = community.Name
	}

	myID := a.sessions.UserID()
	ctrl := chatroom.NewController(communityID, chatroom.Config{
		API:          a.client,
		Tokens:       a.sessions,
		Transport:    transport.NewAdapter(a.cfg.Chat.WSURL),
		PollInterval: a.cfg.Chat.PollInterval,
		OnMessage: func(msg models.ChatMessage) {
			printMessage(msg, myID)
		},
		OnRoomLeft: func(id int) {
			fmt.Printf("Left room %d\n", id)
		},
		OnConnected: a.broker.RoomConnected,
		OnTransportError: func(err error) {
			fmt.Printf("[not connected: %v]\n", err)
		},
	})
	a.broker.RegisterRoom(communityID, ctrl)
	defer a.broker.UnregisterRoom(communityID)

	if err := ctrl.Enter(ctx); err != nil {
		if errors.Is(err, chatroom.ErrUnauthenticated) {
			return fmt.Errorf("please log in first")
		}
		return err
	}
	defer ctrl.Close()

	for _, msg := range ctrl.Messages() {
		printMessage(msg, myID)
	}
	fmt.Printf("-- %s (%d online) -- /share <postId>, /leave, /close --\n",
		name, ctrl.ParticipantCount())

	// The transport must come down on every exit path, interrupt included.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-interrupts
		ctrl.Close()
		os.Exit(0)
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "/close":
			return nil
		case line == "/leave":
			if !confirm(scanner, "Leave this chat room?") {
				continue
			}
			if err := ctrl.Leave(ctx); err != nil {
				fmt.Printf("Leave failed, try again: %v\n", err)
				continue
			}
			return nil
		case strings.HasPrefix(line, "/share "):
			a.shareFromChat(ctx, strings.TrimPrefix(line, "/share "), communityID)
		default:
			ctrl.Send(line)
		}
	}
	return scanner.Err()
}

func (a *app) shareFromChat(ctx context.Context, arg string, communityID int) {
	postID, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		fmt.Printf("invalid post id %q\n", arg)
		return
	}
	post, err := a.client.Post(ctx, postID)
	if err != nil {
		fmt.Printf("failed to load post %d: %v\n", postID, err)
		return
	}
	a.broker.Request(models.ShareRequest{
		PostID:      post.ID,
		PostTitle:   post.Title,
		CommunityID: communityID,
	})
}

func confirm(scanner *bufio.Scanner, prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func printMessage(msg models.ChatMessage, myID int) {
	sender := msg.SenderName
	if msg.SenderID == myID {
		sender = "me"
	}
	fmt.Printf("[%s] %s\n", sender, msg.Content)
}
