package cmd

import (
	"flag"

	"github.com/ChrisSch-dev/budget-tracking-app"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Complete answers shell completion requests, and exits, when the program is
// invoked by the shell for completion (COMP_LINE set). Otherwise it returns.
//
// Install it in bash with:
//
//	COMP_INSTALL=1 bt
func Complete(name string) {
	completion(flag.CommandLine).Complete(name)
}

// completion builds the completion tree: global flags, and each subcommand
// with its own flags.
func completion(global *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command, len(Commands)),
		Flags: flagPredictors(global),
	}
	for _, c := range Commands {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		root.Sub[c.Name()] = &complete.Command{
			Flags: flagPredictors(fs),
			Args:  argPredictor(c.Name()),
		}
	}
	return root
}

// flagPredictors predicts flag values from their names.
func flagPredictors(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		switch f.Name {
		case "cur", "base", "from":
			flags[f.Name] = currencies()
		case "chart":
			flags[f.Name] = predict.Set{"bar", "pie"}
		case "ledger", "rates-file":
			flags[f.Name] = predict.Files("*.json")
		case "o":
			flags[f.Name] = predict.Files("*.png")
		case "cat", "f", "desc", "amount", "d":
			flags[f.Name] = predict.Something
		default:
			flags[f.Name] = predict.Nothing
		}
	})
	return flags
}

func argPredictor(name string) complete.Predictor {
	switch name {
	case "import", "export":
		return predict.Files("*.csv")
	case "new", "load":
		return predict.Files("*.json")
	case "rate":
		return currencies()
	}
	return predict.Nothing
}

func currencies() predict.Set {
	var codes predict.Set
	for _, c := range budget.Currencies() {
		codes = append(codes, c.String())
	}
	return codes
}
