package linkedin

import "github.com/kirillkom/reality-check/internal/core/domain"

// MockProfile returns a fresh copy of the demo profile.
func MockProfile() *domain.Profile {
	return &domain.Profile{
		Name:     "John Doe",
		Headline: "Senior Software Engineer | Full Stack Developer | AI Enthusiast",
		Method:   MethodMock,
		Skills: []string{
			"Python", "JavaScript", "TypeScript", "Solidity", "Java", "C++",
			"React", "Node.js", "FastAPI", "Django", "HTML", "CSS",
			"Blockchain", "Ethereum", "Smart Contracts", "Web3", "DeFi", "Cryptocurrency",
			"Machine Learning", "Data Analysis", "TensorFlow", "PyTorch", "Pandas", "NumPy",
			"SQL", "MongoDB", "PostgreSQL", "Redis",
			"AWS", "Docker", "Kubernetes", "Git", "CI/CD",
			"Leadership", "Project Management", "Team Management", "Communication",
			"API Development", "Data Sharing", "Platform Development", "Monetization",
		},
		Endorsements: map[string]int{
			"JavaScript":       25,
			"React":            20,
			"Node.js":          18,
			"Python":           15,
			"TensorFlow":       10,
			"Machine Learning": 12,
			"SQL":              14,
			"MongoDB":          8,
			"AWS":              10,
			"Docker":           7,
			"Kubernetes":       5,
			"Git":              15,
			"Agile":            10,
			"Scrum":            8,
			"REST API":         12,
			"GraphQL":          6,
		},
		Experience: []domain.ProfileExperience{
			{
				Title:       "Senior Software Engineer",
				Company:     "Tech Innovations Inc.",
				Duration:    "2021 - Present",
				Description: "Leading the development of a machine learning platform using Python, TensorFlow, and React.",
			},
			{
				Title:       "Full Stack Developer",
				Company:     "WebSolutions Co.",
				Duration:    "2018 - 2021",
				Description: "Developed RESTful APIs using Node.js and Express, and built frontend applications with React and Tailwind CSS.",
			},
			{
				Title:       "Junior Developer",
				Company:     "StartupXYZ",
				Duration:    "2016 - 2018",
				Description: "Worked on an e-commerce platform using JavaScript, HTML, CSS, and MongoDB.",
			},
		},
		Projects: []domain.ProfileProject{
			{Name: "Machine Learning Platform", Description: "A platform for training and deploying machine learning models using TensorFlow and Flask."},
			{Name: "E-commerce API", Description: "RESTful API for an e-commerce platform built with Node.js, Express, and MongoDB."},
			{Name: "Data Visualization Dashboard", Description: "Interactive dashboard for visualizing business metrics using React and D3.js."},
			{Name: "Personal Portfolio Website", Description: "Responsive portfolio website built with React and Tailwind CSS."},
			{Name: "Blockchain Voting System", Description: "Secure voting system built on Ethereum blockchain using Solidity and Web3.js."},
		},
	}
}
