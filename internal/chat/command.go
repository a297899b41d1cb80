// Package chat provides the chat command registry, parser and handlers that
// turn slash commands into market, inventory and table operations.
package chat

// Categories for organizing commands.
const (
	CategoryMarket    = "market"
	CategoryInventory = "inventory"
	CategoryTable     = "table"
	CategorySystem    = "system"
)

// Handler identifiers mapping commands to Service handlers.
const (
	HandlerPay        = "pay"
	HandlerCredit     = "credit"
	HandlerPayRequest = "payrequest"
	HandlerClaim      = "claim"
	HandlerExchange   = "exchange"
	HandlerRegions    = "regions"
	HandlerInventory  = "inventory"
	HandlerTransfer   = "transfer"
	HandlerDrink      = "drink"
	HandlerAdvantage  = "advantage"
	HandlerLosing     = "losing"
	HandlerXP         = "xp"
	HandlerHelp       = "help"
)

// Command defines a chat command.
type Command struct {
	// Name is the canonical command name, typed after the slash.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Help is the catalog key of the one-line description.
	Help string
	// Usage is the argument synopsis shown on misuse.
	Usage string
	// Category groups the command in /help.
	Category string
	// Handler selects the Service handler.
	Handler string
	// GMOnly restricts the command to the game master.
	GMOnly bool
}

// BuiltinCommands returns every chat command.
func BuiltinCommands() []Command {
	return []Command{
		// Market commands
		{Name: "pay", Aliases: []string{"p"}, Help: "help.pay", Usage: "/pay <amount>[@region[@strict]]", Category: CategoryMarket, Handler: HandlerPay},
		{Name: "credit", Aliases: []string{"c"}, Help: "help.credit", Usage: "/credit <amount> [split|each|<name>]", Category: CategoryMarket, Handler: HandlerCredit, GMOnly: true},
		{Name: "payrequest", Aliases: []string{"request"}, Help: "help.payrequest", Usage: "/payrequest <amount>[@region[@strict]]", Category: CategoryMarket, Handler: HandlerPayRequest, GMOnly: true},
		{Name: "claim", Help: "help.claim", Usage: "/claim <card>", Category: CategoryMarket, Handler: HandlerClaim},
		{Name: "exchange", Aliases: []string{"ex"}, Help: "help.exchange", Usage: "/exchange <amount>@<from>@<to>", Category: CategoryMarket, Handler: HandlerExchange},
		{Name: "regions", Help: "help.regions", Usage: "/regions", Category: CategoryMarket, Handler: HandlerRegions},

		// Inventory commands
		{Name: "inventory", Aliases: []string{"inv", "i"}, Help: "help.inventory", Usage: "/inventory [actor]", Category: CategoryInventory, Handler: HandlerInventory},
		{Name: "transfer", Aliases: []string{"give"}, Help: "help.transfer", Usage: "/transfer <item> <quantity> <actor>[/<container>]", Category: CategoryInventory, Handler: HandlerTransfer},

		// Table commands
		{Name: "drink", Help: "help.drink", Usage: "/drink <beverage|increase|reduce|clear> [actor]", Category: CategoryTable, Handler: HandlerDrink},
		{Name: "advantage", Aliases: []string{"adv"}, Help: "help.advantage", Usage: "/advantage [factor=option ...]", Category: CategoryTable, Handler: HandlerAdvantage, GMOnly: true},
		{Name: "losing", Help: "help.losing", Usage: "/losing <name:side:size[:drilled][:defeated]> ...", Category: CategoryTable, Handler: HandlerLosing, GMOnly: true},
		{Name: "xp", Help: "help.xp", Usage: "/xp <amount> [reason]", Category: CategoryTable, Handler: HandlerXP, GMOnly: true},

		// System commands
		{Name: "help", Aliases: []string{"?"}, Help: "help.help", Usage: "/help", Category: CategorySystem, Handler: HandlerHelp},
	}
}
