package notification

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// EmailTemplate is a rendered subject/body pair.
type EmailTemplate struct {
	Subject string
	HTML    string
}

var printer = message.NewPrinter(language.English)

func baseTemplate(content string) string {
	return `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>LearnSync Notification</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; margin: 0; padding: 0; background-color: #f8fafc; }
    .container { max-width: 600px; margin: 0 auto; background-color: white; }
    .header { background: linear-gradient(135deg, #3b82f6 0%, #8b5cf6 100%); padding: 30px; text-align: center; }
    .logo { color: white; font-size: 28px; font-weight: bold; margin-bottom: 10px; }
    .tagline { color: rgba(255,255,255,0.9); font-size: 14px; }
    .content { padding: 40px 30px; }
    .footer { background-color: #f1f5f9; padding: 20px 30px; text-align: center; color: #64748b; font-size: 12px; }
    .btn { display: inline-block; background: linear-gradient(135deg, #3b82f6 0%, #8b5cf6 100%); color: white; padding: 12px 24px; text-decoration: none; border-radius: 8px; font-weight: 600; margin: 20px 0; }
    .stats { background-color: #f8fafc; padding: 20px; border-radius: 12px; margin: 20px 0; }
    .stat-item { display: flex; justify-content: space-between; margin: 10px 0; }
    .achievement { background: linear-gradient(135deg, #fbbf24 0%, #f59e0b 100%); color: white; padding: 8px 16px; border-radius: 20px; display: inline-block; margin: 5px; font-size: 12px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <div class="logo">🎓 LearnSync</div>
      <div class="tagline">Your Learning Journey Companion</div>
    </div>
    <div class="content">` + content + `</div>
    <div class="footer">
      <p>Keep learning, keep growing! 🚀</p>
      <p>© LearnSync. All rights reserved.</p>
    </div>
  </div>
</body>
</html>`
}

func formatWatchTime(seconds int) string {
	minutes := seconds / 60
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func statItem(label, value string) string {
	return fmt.Sprintf(`<div class="stat-item"><span>%s:</span><strong>%s</strong></div>`, label, value)
}

// DailyReminderTemplate is sent to users with a live streak and no completion
// yet today.
func DailyReminderTemplate(rec Recipient, appURL string) EmailTemplate {
	content := fmt.Sprintf(`
      <h2 style="color: #1e293b; margin-bottom: 20px;">Don't Break Your Streak! 🔥</h2>
      <p style="color: #475569; font-size: 16px; line-height: 1.6;">
        Hi %s! Your %d-day learning streak is waiting for you.
      </p>
      <div class="stats">
        %s
        %s
        %s
      </div>
      <p style="color: #475569; font-size: 16px; line-height: 1.6;">
        Just 10 minutes of learning today will keep your streak alive! 💪
      </p>
      <a href="%s/dashboard" class="btn">Continue Learning</a>`,
		rec.Name(), rec.CurrentStreak,
		statItem("Current Streak", fmt.Sprintf("%d days 🔥", rec.CurrentStreak)),
		statItem("Videos Watched", printer.Sprintf("%d", rec.VideosCompleted)),
		statItem("Time Spent Learning", formatWatchTime(rec.WatchTime)),
		appURL)

	return EmailTemplate{
		Subject: fmt.Sprintf("🔥 Don't break your %d-day streak!", rec.CurrentStreak),
		HTML:    baseTemplate(content),
	}
}

// WeeklyReportTemplate summarizes the past week's sessions and unlocks.
func WeeklyReportTemplate(rec Recipient, week WeeklySummary, appURL string) EmailTemplate {
	var achievements string
	if len(week.Achievements) > 0 {
		var badges strings.Builder
		for _, name := range week.Achievements {
			badges.WriteString(fmt.Sprintf(`<span class="achievement">%s</span>`, name))
		}
		achievements = fmt.Sprintf(`
      <h3 style="color: #1e293b; margin: 30px 0 15px 0;">🏆 New Achievements</h3>
      <div>%s</div>`, badges.String())
	}

	content := fmt.Sprintf(`
      <h2 style="color: #1e293b; margin-bottom: 20px;">Your Weekly Learning Report 📊</h2>
      <p style="color: #475569; font-size: 16px; line-height: 1.6;">
        Hi %s! Here's your progress from this week:
      </p>
      <div class="stats">
        %s
        %s
        %s
      </div>
      %s
      <p style="color: #475569; font-size: 16px; line-height: 1.6; margin-top: 30px;">
        You're doing fantastic! Keep up the momentum! 🚀
      </p>
      <a href="%s/analytics" class="btn">View Full Analytics</a>`,
		rec.Name(),
		statItem("Videos Completed", printer.Sprintf("%d videos 🎥", week.VideosCompleted)),
		statItem("Time Invested", formatWatchTime(week.WatchTime)+" ⏰"),
		statItem("Learning Streak", fmt.Sprintf("%d days 🔥", rec.CurrentStreak)),
		achievements,
		appURL)

	return EmailTemplate{
		Subject: printer.Sprintf("📊 Your weekly learning report - %d videos completed!", week.VideosCompleted),
		HTML:    baseTemplate(content),
	}
}

var milestoneMessages = map[int]string{
	7:   "🎉 One week strong!",
	14:  "🔥 Two weeks of dedication!",
	30:  "🏆 One month milestone!",
	60:  "💎 Two months of excellence!",
	100: "🚀 Century club member!",
}

// StreakCelebrationTemplate fires when a streak lands exactly on a milestone.
func StreakCelebrationTemplate(rec Recipient, appURL string) EmailTemplate {
	milestone, ok := milestoneMessages[rec.CurrentStreak]
	if !ok {
		milestone = "⭐ Amazing consistency!"
	}

	content := fmt.Sprintf(`
      <h2 style="color: #1e293b; margin-bottom: 20px;">%d-Day Streak Achievement!</h2>
      <p style="color: #475569; font-size: 18px; line-height: 1.6; text-align: center; margin: 30px 0;">
        <strong style="color: #dc2626; font-size: 24px;">%d DAYS</strong><br>
        %s
      </p>
      <div class="stats">
        %s
        %s
      </div>
      <p style="color: #475569; font-size: 16px; line-height: 1.6; text-align: center;">
        You're building an incredible learning habit. Keep going! 💪
      </p>
      <a href="%s/dashboard" class="btn">Continue Your Journey</a>`,
		rec.CurrentStreak, rec.CurrentStreak, milestone,
		statItem("Total Videos Watched", printer.Sprintf("%d videos", rec.VideosCompleted)),
		statItem("Total Learning Time", formatWatchTime(rec.WatchTime)),
		appURL)

	return EmailTemplate{
		Subject: fmt.Sprintf("🎉 %d-day learning streak achieved!", rec.CurrentStreak),
		HTML:    baseTemplate(content),
	}
}

// AchievementTemplate announces a single unlock.
func AchievementTemplate(rec Recipient, p AchievementPayload, appURL string) EmailTemplate {
	content := fmt.Sprintf(`
      <h2 style="color: #1e293b; margin-bottom: 20px;">Achievement Unlocked! 🏆</h2>
      <p style="color: #475569; font-size: 16px; line-height: 1.6;">
        Hi %s! You've earned a new badge:
      </p>
      <p style="text-align: center; margin: 30px 0;">
        <span class="achievement" style="font-size: 16px;">%s</span>
      </p>
      <div class="stats">
        %s
        %s
      </div>
      <a href="%s/dashboard" class="btn">Keep Going</a>`,
		rec.Name(), p.Name,
		statItem("Badge", p.Description),
		statItem("XP Reward", printer.Sprintf("+%d XP", p.XPReward)),
		appURL)

	return EmailTemplate{
		Subject: fmt.Sprintf("🏆 Achievement unlocked: %s", p.Name),
		HTML:    baseTemplate(content),
	}
}
