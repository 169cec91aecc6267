package github

import "github.com/kirillkom/reality-check/internal/core/domain"

// MockRepositories is the demo dataset served when the API cannot answer.
func MockRepositories() []domain.Repository {
	return []domain.Repository{
		{
			Name:          "personal-website",
			Description:   "My personal portfolio website built with React and Tailwind CSS",
			Language:      "JavaScript",
			CommitHistory: []string{"Added responsive design", "Updated portfolio section", "Fixed navigation bug"},
		},
		{
			Name:          "machine-learning-projects",
			Description:   "Collection of ML projects using TensorFlow and PyTorch",
			Language:      "Python",
			CommitHistory: []string{"Implemented neural network", "Added data preprocessing", "Updated model accuracy"},
		},
		{
			Name:          "resume-parser",
			Description:   "Automated resume parsing tool using NLP and machine learning",
			Language:      "Python",
			CommitHistory: []string{"Initial commit", "Added PDF parsing functionality", "Implemented skill extraction", "Added team collaboration features"},
		},
		{
			Name:          "e-commerce-api",
			Description:   "RESTful API for e-commerce platform built with Node.js and Express",
			Language:      "JavaScript",
			CommitHistory: []string{"Added user authentication", "Implemented product search", "Fixed payment gateway"},
		},
		{
			Name:          "data-visualization-dashboard",
			Description:   "Interactive dashboard for data visualization using D3.js",
			Language:      "JavaScript",
			CommitHistory: []string{"Added bar chart component", "Implemented data filtering", "Fixed responsive layout"},
		},
		{
			Name:          "blockchain-voting-system",
			Description:   "Secure voting system built on Ethereum blockchain",
			Language:      "Solidity",
			CommitHistory: []string{"Implemented smart contract", "Added vote verification", "Fixed security vulnerability"},
		},
	}
}
