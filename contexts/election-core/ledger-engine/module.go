package ledgerengine

import (
	"log/slog"

	httpadapter "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/adapters/http"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/adapters/memory"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/application/commands"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/application/queries"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Elections  ports.ElectionRepository
	Candidates ports.CandidateRepository
	Voters     ports.VoterRepository
	Admins     ports.AdminRepository
	Audit      ports.AuditLog
	Clock      ports.Clock
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			CreateElection: commands.CreateElectionUseCase{
				Elections: deps.Elections,
				Admins:    deps.Admins,
				Clock:     deps.Clock,
				Logger:    deps.Logger,
			},
			ToggleElection: commands.ToggleElectionUseCase{
				Elections: deps.Elections,
				Admins:    deps.Admins,
				Clock:     deps.Clock,
				Logger:    deps.Logger,
			},
			AddCandidate: commands.AddCandidateUseCase{
				Candidates: deps.Candidates,
				Admins:     deps.Admins,
				Clock:      deps.Clock,
				Logger:     deps.Logger,
			},
			RegisterVoters: commands.RegisterVoterUseCase{
				Voters: deps.Voters,
				Admins: deps.Admins,
				Clock:  deps.Clock,
				Logger: deps.Logger,
			},
			CastVote: commands.CastVoteUseCase{
				Voters: deps.Voters,
				Clock:  deps.Clock,
				Logger: deps.Logger,
			},
			AddAdmin: commands.AddAdminUseCase{
				Admins: deps.Admins,
				Clock:  deps.Clock,
				Logger: deps.Logger,
			},
			RemoveAdmin: commands.RemoveAdminUseCase{
				Admins: deps.Admins,
				Clock:  deps.Clock,
				Logger: deps.Logger,
			},
			Elections: queries.ElectionQueries{
				Elections: deps.Elections,
				Clock:     deps.Clock,
			},
			Candidates: queries.CandidateQueries{
				Candidates: deps.Candidates,
			},
			Results: queries.ResultsUseCase{
				Elections:  deps.Elections,
				Candidates: deps.Candidates,
				Clock:      deps.Clock,
			},
			Voters: queries.VoterQueries{
				Elections: deps.Elections,
				Voters:    deps.Voters,
			},
			Admins: queries.AdminQueries{
				Admins: deps.Admins,
			},
			Audit: queries.AuditQueries{
				Audit: deps.Audit,
			},
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(seedAdmin string, logger *slog.Logger) Module {
	store := memory.NewStore(seedAdmin)
	module := NewModule(Dependencies{
		Elections:  store,
		Candidates: store,
		Voters:     store,
		Admins:     store,
		Audit:      store,
		Clock:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
