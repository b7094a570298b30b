package catalog

import (
	"time"

	"bookyz/internal/models"
)

func strPtr(s string) *string {
	return &s
}

// DefaultTimeSlots are the bookable slot labels, every 30 minutes from 09:00 to 14:30.
func DefaultTimeSlots() []string {
	return []string{
		"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
		"12:00", "12:30", "13:00", "13:30", "14:00", "14:30",
	}
}

func defaultServices() []models.Service {
	return []models.Service{
		{ID: "haircut", Name: "תספורת", Price: 80, Duration: 20, Icon: "scissors"},
		{ID: "haircut-beard", Name: "תספורת וזקן", Price: 90, Duration: 20, Icon: "mustache"},
		{ID: "all-scissors", Name: "All Scissors", Price: 120, Duration: 30, Icon: "scissors"},
		{ID: "premium", Name: "פרימיום (תור כפול)", Price: 170, Duration: 40, Icon: "crown"},
	}
}

func imageStory(id, media, caption string, createdAt time.Time) models.Story {
	return models.Story{
		ID:        id,
		MediaType: models.MediaTypeImage,
		MediaURL:  media,
		Caption:   strPtr(caption),
		CreatedAt: createdAt,
		Active:    true,
	}
}

func defaultStaff(now time.Time) []models.Staff {
	return []models.Staff{
		{
			ID:        1,
			Name:      "LIAM",
			ImageName: "barber1",
			SocialLinks: &models.SocialLinks{
				Instagram: strPtr("liam_barber"),
				Whatsapp:  strPtr("0500000000"),
				Tiktok:    strPtr("liamcuts"),
			},
			Stories: []models.Story{
				imageStory("liam_1", "barber1", "תספורת חדשה שעשיתי היום! 💈✨", now.AddDate(0, 0, -2)),
				imageStory("liam_2", "barber1", "מחכה לכם במספרה! קבעו תור 🔥", now.AddDate(0, 0, -1)),
			},
		},
		{
			ID:        2,
			Name:      "ירון",
			ImageName: "barber2",
			SocialLinks: &models.SocialLinks{
				Instagram: strPtr("yaron_style"),
				Whatsapp:  strPtr("0500000001"),
				Facebook:  strPtr("Yaron Barber"),
			},
			Stories: []models.Story{
				imageStory("yaron_1", "barber2", "סגנון חדש לשבוע הזה 💇‍♂️", now.AddDate(0, 0, -3)),
			},
		},
		{
			ID:        3,
			Name:      "אמיר",
			ImageName: "barber3",
			SocialLinks: &models.SocialLinks{
				Instagram: strPtr("amir_cuts"),
				Whatsapp:  strPtr("0500000002"),
			},
			Stories: []models.Story{
				imageStory("amir_1", "barber3", "תספורת פרימיום ⭐", now.AddDate(0, 0, -5)),
				imageStory("amir_2", "barber3", "עבודות מהשבוע האחרון 🔥", now.Add(-12*time.Hour)),
			},
		},
		{
			ID:        4,
			Name:      "עמית",
			ImageName: "barber4",
			SocialLinks: &models.SocialLinks{
				Instagram: strPtr("amit_hair"),
				Whatsapp:  strPtr("0500000003"),
				Tiktok:    strPtr("amit_tok"),
			},
		},
		{
			ID:        5,
			Name:      "קווין",
			ImageName: "barber5",
			SocialLinks: &models.SocialLinks{
				Whatsapp: strPtr("0500000004"),
			},
		},
	}
}

func defaultBusiness() models.BusinessInfo {
	weekday := func(day, hebrew string) models.DaySchedule {
		return models.DaySchedule{Day: day, DayHebrew: hebrew, IsOpen: true, OpenTime: strPtr("09:00"), CloseTime: strPtr("19:00")}
	}
	return models.BusinessInfo{
		Name:              "515 | BRAVENCE",
		Location:          "באר שבע",
		PhoneNumber:       "050-0000000",
		InstagramUsername: strPtr("bravence515"),
		OpeningHours: []models.DaySchedule{
			weekday("Sunday", "ראשון"),
			weekday("Monday", "שני"),
			weekday("Tuesday", "שלישי"),
			weekday("Wednesday", "רביעי"),
			weekday("Thursday", "חמישי"),
			{Day: "Friday", DayHebrew: "שישי", IsOpen: true, OpenTime: strPtr("08:00"), CloseTime: strPtr("14:00")},
			{Day: "Saturday", DayHebrew: "שבת", IsOpen: false},
		},
	}
}
