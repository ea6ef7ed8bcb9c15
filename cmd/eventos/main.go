package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ifg/eventos-portal/internal/api"
	"github.com/ifg/eventos-portal/internal/catalog"
	"github.com/ifg/eventos-portal/internal/export"
	"github.com/ifg/eventos-portal/internal/form"
	"github.com/ifg/eventos-portal/internal/model"
	"github.com/ifg/eventos-portal/internal/notify"
	"github.com/ifg/eventos-portal/internal/scope"
	"github.com/ifg/eventos-portal/internal/session"
)

// sessaoCLI é o id fixo da sessão guardada no diretório do usuário.
const sessaoCLI = "cli"

type app struct {
	client   *api.Client
	sessions *session.Manager
	term     *notify.Terminal
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).Level(zerolog.WarnLevel)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	_ = godotenv.Load()

	a, err := newApp()
	if err != nil {
		log.Fatal().Err(err).Msg("não foi possível iniciar")
	}

	ctx := context.Background()
	cmd := os.Args[1]
	args := os.Args[2:]

	var runErr error
	switch cmd {
	case "login":
		runErr = a.runLogin(ctx, args)
	case "logout":
		runErr = a.sessions.Logout(ctx, a.term, sessaoCLI)
	case "registrar":
		runErr = a.runRegistrar(ctx, args)
	case "eventos":
		runErr = a.runEventos(ctx, args)
	case "inscrever":
		runErr = a.runInscrever(ctx, args)
	case "cancelar":
		runErr = a.runCancelar(ctx, args)
	case "hierarquia":
		runErr = a.runHierarquia(ctx)
	case "exportar":
		runErr = a.runExportar(ctx, args)
	default:
		usage()
		os.Exit(1)
	}
	if runErr != nil {
		a.term.Notify(ctx, notify.Error, runErr.Error())
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "eventos CLI")
	fmt.Fprintln(os.Stderr, "uso:")
	fmt.Fprintln(os.Stderr, "  eventos login --usuario ana@ifg.edu.br [--senha ...]")
	fmt.Fprintln(os.Stderr, "  eventos registrar --nome \"Ana Souza\" --usuario ana@ifg.edu.br --senha ...")
	fmt.Fprintln(os.Stderr, "  eventos logout")
	fmt.Fprintln(os.Stderr, "  eventos eventos [--aba disponiveis|minhas] [--busca \"semana tecnologia\"]")
	fmt.Fprintln(os.Stderr, "  eventos inscrever --evento 3 [--resposta 7=ADS ...]")
	fmt.Fprintln(os.Stderr, "  eventos cancelar --inscricao 50")
	fmt.Fprintln(os.Stderr, "  eventos hierarquia")
	fmt.Fprintln(os.Stderr, "  eventos exportar --evento 3 [--status todos|ativa|cancelada] [--busca ...] [--saida arquivo.csv]")
	fmt.Fprintln(os.Stderr, "variáveis: API_BASE_URL (obrigatória), EVENTOS_SENHA")
}

func newApp() (*app, error) {
	base := strings.TrimSpace(os.Getenv("API_BASE_URL"))
	if base == "" {
		return nil, errors.New("defina API_BASE_URL")
	}
	client, err := api.New(api.Config{BaseURL: base})
	if err != nil {
		return nil, err
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("diretório de configuração: %w", err)
	}
	store, err := session.NewFileStore(filepath.Join(dir, "eventos-ifg"))
	if err != nil {
		return nil, err
	}

	return &app{
		client:   client,
		sessions: session.NewManager(store, client, session.Options{TTL: 12 * time.Hour, Logger: log.Logger}),
		term:     notify.NewTerminal(os.Stdin, os.Stdout),
	}, nil
}

// logado devolve o cliente autenticado da sessão salva.
func (a *app) logado(ctx context.Context) (*api.Client, *session.Session, error) {
	sess, err := a.sessions.Get(ctx, sessaoCLI)
	if err != nil || !sess.LoggedIn() {
		return nil, nil, errors.New("faça login para continuar: eventos login --usuario ...")
	}
	return a.client.WithToken(sess.Token), sess, nil
}

func senha(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("EVENTOS_SENHA")
}

func (a *app) runLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	usuario := fs.String("usuario", "", "e-mail de acesso")
	pass := fs.String("senha", "", "senha (ou EVENTOS_SENHA)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.login(ctx, api.Credenciais{Username: *usuario, Password: senha(*pass)})
}

func (a *app) login(ctx context.Context, cred api.Credenciais) error {
	if err := form.NewValidator().ValidateCredenciais(&cred); err != nil {
		return err
	}
	token, err := a.client.Login(ctx, cred)
	if err != nil {
		if api.IsUnauthorized(err) {
			return errors.New("Usuário ou senha inválidos.")
		}
		return err
	}
	sess, err := a.sessions.Login(ctx, a.term, sessaoCLI, token)
	if err != nil {
		return err
	}
	roles := make([]string, 0, len(sess.Roles))
	for _, r := range sess.Roles {
		roles = append(roles, string(r))
	}
	fmt.Printf("usuário: %s  papéis: %s\n", sess.Subject(), strings.Join(roles, ", "))
	if sess.PendingEventoID != 0 {
		a.term.Notify(ctx, notify.Info, fmt.Sprintf("inscrição pendente: eventos inscrever --evento %d", sess.PendingEventoID))
	}
	return nil
}

func (a *app) runRegistrar(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("registrar", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	nome := fs.String("nome", "", "nome completo")
	usuario := fs.String("usuario", "", "e-mail de acesso")
	pass := fs.String("senha", "", "senha (ou EVENTOS_SENHA)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reg := api.Registro{NomeCompleto: *nome, Username: *usuario, Password: senha(*pass)}
	if err := form.NewValidator().ValidateRegistro(&reg); err != nil {
		return err
	}
	if err := a.client.Registrar(ctx, reg); err != nil {
		return err
	}
	a.term.Notify(ctx, notify.Success, "Cadastro realizado com sucesso!")
	return a.login(ctx, api.Credenciais{Username: reg.Username, Password: reg.Password})
}

func (a *app) runEventos(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("eventos", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	aba := fs.String("aba", string(catalog.AbaDisponiveis), "disponiveis ou minhas")
	busca := fs.String("busca", "", "termos de busca")
	if err := fs.Parse(args); err != nil {
		return err
	}

	eventos, err := a.client.ListEventos(ctx)
	if err != nil {
		return errors.New(catalog.MsgFalhaEventos)
	}

	now := time.Now()
	lista := catalog.Disponiveis(eventos, *busca, now)
	var inscricoes []model.Inscricao
	if client, _, err := a.logado(ctx); err == nil {
		minhas, err := client.ListMinhasInscricoes(ctx)
		if err != nil {
			return err
		}
		inscricoes = minhas
		if catalog.ParseAba(*aba) == catalog.AbaMinhas {
			lista = catalog.Minhas(eventos, minhas, *busca)
		}
	} else if catalog.ParseAba(*aba) == catalog.AbaMinhas {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTÍTULO\tLOCAL\tTÉRMINO\tSITUAÇÃO")
	for _, evt := range lista {
		situacao := string(catalog.EstadoDe(inscricoes, evt.ID))
		if catalog.IsEncerrado(evt, now) {
			situacao = "encerrado"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", evt.ID, evt.Titulo, evt.Local, evt.DataFim.FormatBR(), situacao)
	}
	return tw.Flush()
}

// respostas acumula --resposta id=valor.
type respostas form.Answers

func (r respostas) String() string { return fmt.Sprint(map[int64]string(r)) }

func (r respostas) Set(v string) error {
	id, valor, ok := strings.Cut(v, "=")
	if !ok {
		return fmt.Errorf("use id=valor, recebido %q", v)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return fmt.Errorf("id de campo inválido: %q", id)
	}
	r[n] = valor
	return nil
}

func (a *app) runInscrever(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("inscrever", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	eventoID := fs.Int64("evento", 0, "id do evento")
	resp := respostas{}
	fs.Var(resp, "resposta", "resposta de campo adicional (id=valor), repetível")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *eventoID <= 0 {
		return errors.New("informe --evento")
	}

	client, _, err := a.logado(ctx)
	if err != nil {
		// mantém o evento para depois do login
		if _, perr := a.sessions.SetPendingEvento(ctx, sessaoCLI, *eventoID); perr != nil {
			return perr
		}
		return err
	}

	inscricoes, err := client.ListMinhasInscricoes(ctx)
	if err != nil {
		return err
	}
	if err := catalog.CheckDuplicate(inscricoes, *eventoID); err != nil {
		return err
	}
	campos, err := client.ListCampos(ctx, *eventoID)
	if err != nil {
		return err
	}

	f := form.Build(campos)
	answers := form.Answers(resp)
	for _, field := range f.Fields {
		if _, ok := answers[field.ID]; ok {
			continue
		}
		a.term.Notify(ctx, notify.Info, fmt.Sprintf("campo %d (%s) sem resposta; use --resposta %d=valor", field.ID, field.Nome, field.ID))
	}

	if _, err := f.Submit(ctx, *eventoID, answers, client); err != nil {
		var ferrs form.FieldErrors
		if errors.As(err, &ferrs) {
			for id, msg := range ferrs {
				a.term.Notify(ctx, notify.Warning, fmt.Sprintf("campo %d: %s", id, msg))
			}
		}
		return err
	}
	_, _ = a.sessions.TakePendingEvento(ctx, sessaoCLI)
	a.term.Notify(ctx, notify.Success, catalog.MsgInscricaoRealizada)
	return nil
}

func (a *app) runCancelar(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cancelar", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	inscricaoID := fs.Int64("inscricao", 0, "id da inscrição")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, _, err := a.logado(ctx)
	if err != nil {
		return err
	}
	inscricoes, err := client.ListMinhasInscricoes(ctx)
	if err != nil {
		return err
	}
	if _, ok := catalog.Propria(inscricoes, *inscricaoID); !ok {
		return errors.New("inscrição não encontrada")
	}
	if !a.term.Confirm(ctx, catalog.MsgConfirmarCancelamento) {
		return nil
	}
	if err := client.CancelarInscricao(ctx, *inscricaoID); err != nil {
		return err
	}
	a.term.Notify(ctx, notify.Success, catalog.MsgInscricaoCancelada)
	return nil
}

func (a *app) runHierarquia(ctx context.Context) error {
	client, sess, err := a.logado(ctx)
	if err != nil {
		return err
	}
	if !sess.IsAdmin() {
		return errors.New("acesso restrito à administração")
	}

	resolver := scope.NewResolver(64, time.Minute, log.Logger)
	s, err := resolver.Resolve(ctx, client, sess.Usuario, sess.Roles)
	if err != nil {
		return err
	}
	if s.FallbackAllCampus {
		a.term.Notify(ctx, notify.Warning, "nenhum campus administrado; exibindo todos")
	}
	fmt.Printf("nível: %s\n", s.Nivel)
	for _, c := range s.Campus {
		fmt.Printf("%d  %s\n", c.ID, c.Nome)
		for _, d := range c.Departamentos {
			marca := ""
			if s.CanCreateEvento(c.ID, d.ID) {
				marca = "  (gerencia)"
			}
			fmt.Printf("    %d  %s%s\n", d.ID, d.Nome, marca)
		}
	}
	return nil
}

func (a *app) runExportar(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("exportar", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	eventoID := fs.Int64("evento", 0, "id do evento")
	status := fs.String("status", string(export.StatusTodos), "todos, ativa ou cancelada")
	busca := fs.String("busca", "", "filtro por nome, e-mail ou status")
	saida := fs.String("saida", "", "arquivo de saída (padrão inscritos_evento_<id>.csv)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *eventoID <= 0 {
		return errors.New("informe --evento")
	}

	client, _, err := a.logado(ctx)
	if err != nil {
		return err
	}
	todos, err := client.ListInscritos(ctx, *eventoID)
	if err != nil {
		return err
	}
	filtrados := export.Filter(todos, export.ParseFiltroStatus(*status), *busca)
	if len(filtrados) == 0 {
		return export.ErrSemDados
	}

	path := *saida
	if path == "" {
		path = export.Filename(*eventoID)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.Write(file, todos, filtrados); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	a.term.Notify(ctx, notify.Success, fmt.Sprintf("%d inscritos exportados para %s", len(filtrados), path))
	return nil
}
