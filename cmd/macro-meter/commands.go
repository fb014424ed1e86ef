package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"macro-meter/internal/models"
	"macro-meter/internal/tracker"
	"macro-meter/internal/usda"
	"macro-meter/internal/view"
)

var (
	logWeight, logCalories, logProtein, logCarbs, logFats string

	historySearch string
	historyDate   string

	progressDate string

	goalCalories, goalProtein, goalCarbs, goalFats float64

	profileName, profileWeight, profileHeight string
	profileAge                                int

	lookupWeight float64
	lookupLog    bool

	jsonOutput bool
)

var logCmd = &cobra.Command{
	Use:     "log [food name]",
	Short:   "Log a meal for today",
	Example: `  macro-meter log "Chicken Rice" --weight 350g --calories 520 --protein 32g --carbs 48g --fats 18g`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := models.MealInput{FoodName: args[0]}
		fields := []struct {
			flag string
			raw  string
			dst  *models.Quantity
			unit models.Unit
		}{
			{"weight", logWeight, &in.Weight, models.UnitGram},
			{"calories", logCalories, &in.Calories, models.UnitNone},
			{"protein", logProtein, &in.Protein, models.UnitGram},
			{"carbs", logCarbs, &in.Carbs, models.UnitGram},
			{"fats", logFats, &in.Fats, models.UnitGram},
		}
		for _, f := range fields {
			if f.raw == "" {
				*f.dst = models.Quantity{Unit: f.unit}
				continue
			}
			q, ok := models.ParseQuantity(f.raw)
			if !ok {
				return fmt.Errorf("--%s: %q is not a number", f.flag, f.raw)
			}
			if q.Unit == models.UnitNone {
				q.Unit = f.unit
			}
			*f.dst = q
		}

		rec, err := app.Meals.AppendMeal(in)
		if err != nil {
			return err
		}
		return printMeals(cmd.OutOrStdout(), []models.MealRecord{rec})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List logged meals, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		meals := app.Meals.Search(historySearch)
		if historyDate != "" {
			if _, err := app.Calendar.ParseDate(historyDate); err != nil {
				return err
			}
			meals = tracker.FilterByDate(meals, historyDate)
		}

		out := cmd.OutOrStdout()
		if len(meals) == 0 && !jsonOutput {
			if historySearch != "" {
				fmt.Fprintf(out, "No meals found matching %q\n", historySearch)
			} else {
				fmt.Fprintln(out, "No meal history found. Start tracking to see your meals here.")
			}
			return nil
		}
		return printMeals(out, meals)
	},
}

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show a day's macros against your goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		date := progressDate
		if date == "" {
			date = app.Calendar.Today()
		}

		p, err := app.DailyProgress(date)
		if err != nil {
			return err
		}
		v, err := view.Progress(app.Calendar, p)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, v)
		}

		fmt.Fprintf(out, "%s (%s)\n\n", v.Label, v.Date)
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, m := range v.Macros {
			fmt.Fprintf(w, "%s\t%s / %s\t%s\n", m.Title, m.Current, m.Goal, m.Caption)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nprevious: %s", v.Previous)
		if v.Next != "" {
			fmt.Fprintf(out, "  next: %s", v.Next)
		}
		fmt.Fprintln(out)
		return nil
	},
}

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Show your daily goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printGoals(cmd.OutOrStdout(), app.Goals.GetGoals())
	},
}

var goalsSetCmd = &cobra.Command{
	Use:     "set",
	Short:   "Update one or more daily goals",
	Example: `  macro-meter goals set --protein 180`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var update models.GoalUpdate
		flags := cmd.Flags()
		if flags.Changed("calories") {
			update.CaloriesGoal = models.Float(goalCalories)
		}
		if flags.Changed("protein") {
			update.ProteinGoal = models.Float(goalProtein)
		}
		if flags.Changed("carbs") {
			update.CarbsGoal = models.Float(goalCarbs)
		}
		if flags.Changed("fats") {
			update.FatsGoal = models.Float(goalFats)
		}
		if len(update.Targets()) == 0 {
			return fmt.Errorf("nothing to update: pass at least one of --calories, --protein, --carbs, --fats")
		}

		goals, err := app.Goals.SaveGoals(update)
		if err != nil {
			return err
		}
		return printGoals(cmd.OutOrStdout(), goals)
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printProfile(cmd.OutOrStdout(), app.Profile.GetProfile())
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Edit your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := app.Profile.GetProfile()
		flags := cmd.Flags()
		if flags.Changed("name") {
			p.Name = profileName
		}
		if flags.Changed("age") {
			p.Age = profileAge
		}
		if flags.Changed("weight") {
			p.Weight = profileWeight
		}
		if flags.Changed("height") {
			p.Height = profileHeight
		}

		saved, err := app.Profile.SaveProfile(p)
		if err != nil {
			return err
		}
		return printProfile(cmd.OutOrStdout(), saved)
	},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show app settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printSettings(cmd.OutOrStdout(), app.Profile.GetSettings())
	},
}

var settingsToggleCmd = &cobra.Command{
	Use:       "toggle [setting]",
	Short:     "Flip a setting on or off",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"darkMode", "useMetricUnits", "notificationsEnabled"},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := app.Profile.ToggleSetting(args[0])
		if err != nil {
			return err
		}
		return printSettings(cmd.OutOrStdout(), s)
	},
}

var lookupCmd = &cobra.Command{
	Use:   "lookup [food name]",
	Short: "Look up per-100g macros in USDA FoodData Central",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.USDA.APIKey == "" {
			return fmt.Errorf("USDA_API_KEY is not set")
		}
		if lookupLog && lookupWeight <= 0 {
			return fmt.Errorf("--weight is required with --log")
		}

		client := usda.NewClient(usda.Config{
			APIKey:      cfg.USDA.APIKey,
			BaseURL:     cfg.USDA.BaseURL,
			MaxAttempts: cfg.USDA.MaxAttempts,
			Delay:       cfg.USDA.Delay,
		}, logger.Named("usda"))

		n, err := client.Lookup(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			if err := writeJSON(out, n); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(out, "%s per 100g:\n", n.Description)
			fmt.Fprintf(out, "Calories: %s kcal\n", view.Amount(n.Calories, models.UnitNone))
			fmt.Fprintf(out, "Protein: %s\n", view.Amount(n.Protein, models.UnitGram))
			fmt.Fprintf(out, "Carbs: %s\n", view.Amount(n.Carbs, models.UnitGram))
			fmt.Fprintf(out, "Fat: %s\n", view.Amount(n.Fat, models.UnitGram))
		}

		if lookupLog {
			rec, err := app.Meals.AppendMeal(n.ToMealInput(lookupWeight))
			if err != nil {
				return err
			}
			return printMeals(out, []models.MealRecord{rec})
		}
		return nil
	},
}

func init() {
	logCmd.Flags().StringVar(&logWeight, "weight", "", "Portion weight, e.g. 350g")
	logCmd.Flags().StringVar(&logCalories, "calories", "", "Calories")
	logCmd.Flags().StringVar(&logProtein, "protein", "", "Protein, e.g. 32g")
	logCmd.Flags().StringVar(&logCarbs, "carbs", "", "Carbohydrates, e.g. 48g")
	logCmd.Flags().StringVar(&logFats, "fats", "", "Fats, e.g. 18g")

	historyCmd.Flags().StringVarP(&historySearch, "search", "s", "", "Filter by food name")
	historyCmd.Flags().StringVar(&historyDate, "date", "", "Only meals from this date (YYYY-MM-DD)")

	progressCmd.Flags().StringVar(&progressDate, "date", "", "Day to show (YYYY-MM-DD, default today)")

	goalsSetCmd.Flags().Float64Var(&goalCalories, "calories", 0, "Daily calorie goal")
	goalsSetCmd.Flags().Float64Var(&goalProtein, "protein", 0, "Daily protein goal in grams")
	goalsSetCmd.Flags().Float64Var(&goalCarbs, "carbs", 0, "Daily carbohydrate goal in grams")
	goalsSetCmd.Flags().Float64Var(&goalFats, "fats", 0, "Daily fat goal in grams")
	goalsCmd.AddCommand(goalsSetCmd)

	profileSetCmd.Flags().StringVar(&profileName, "name", "", "Display name")
	profileSetCmd.Flags().IntVar(&profileAge, "age", 0, "Age in years")
	profileSetCmd.Flags().StringVar(&profileWeight, "weight", "", "Weight, e.g. 75kg")
	profileSetCmd.Flags().StringVar(&profileHeight, "height", "", "Height, e.g. 178cm")
	profileCmd.AddCommand(profileSetCmd)

	settingsCmd.AddCommand(settingsToggleCmd)

	lookupCmd.Flags().Float64Var(&lookupWeight, "weight", 0, "Portion in grams")
	lookupCmd.Flags().BoolVar(&lookupLog, "log", false, "Log the portion as a meal")

	for _, c := range []*cobra.Command{historyCmd, progressCmd, goalsCmd, profileCmd, settingsCmd, lookupCmd, logCmd} {
		c.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print JSON")
	}
}

func printMeals(out io.Writer, meals []models.MealRecord) error {
	if jsonOutput {
		return writeJSON(out, meals)
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tFOOD\tWEIGHT\tCALORIES\tPROTEIN\tCARBS\tFATS")
	for _, m := range meals {
		m = view.Meal(m)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", m.Date, m.FoodName, m.Weight, m.Calories, m.Protein, m.Carbs, m.Fats)
	}
	return w.Flush()
}

func printGoals(out io.Writer, g models.GoalRecord) error {
	if jsonOutput {
		return writeJSON(out, g)
	}
	v := view.Goals(g)
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Calories\t%s\n", v.Calories)
	fmt.Fprintf(w, "Protein\t%s\n", v.Protein)
	fmt.Fprintf(w, "Carbs\t%s\n", v.Carbs)
	fmt.Fprintf(w, "Fats\t%s\n", v.Fats)
	return w.Flush()
}

func printProfile(out io.Writer, p models.UserProfile) error {
	if jsonOutput {
		return writeJSON(out, p)
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Name\t%s\n", p.Name)
	fmt.Fprintf(w, "Age\t%d years\n", p.Age)
	fmt.Fprintf(w, "Weight\t%s\n", p.Weight)
	fmt.Fprintf(w, "Height\t%s\n", p.Height)
	return w.Flush()
}

func printSettings(out io.Writer, s models.Settings) error {
	if jsonOutput {
		return writeJSON(out, s)
	}
	onOff := func(b bool) string {
		if b {
			return "enabled"
		}
		return "disabled"
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Dark Mode\t%s\n", onOff(s.DarkMode))
	fmt.Fprintf(w, "Use Metric Units\t%s\n", onOff(s.UseMetricUnits))
	fmt.Fprintf(w, "Notifications Enabled\t%s\n", onOff(s.NotificationsEnabled))
	return w.Flush()
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
